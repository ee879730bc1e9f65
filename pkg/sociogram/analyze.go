package sociogram

import (
	"slices"

	"github.com/matzehuels/sociogram/pkg/graph"
)

// Popularity pairs a node with the number of distinct people who chose it.
type Popularity struct {
	Node     string `json:"node"`
	InDegree int    `json:"in_degree"`
}

// Result is the analysis of one sociogram. It is a snapshot: nothing in it
// refers back to the graph it was computed from.
type Result struct {
	// Popular lists every node by descending in-degree. Ties keep the order
	// in which nodes were first created in the graph.
	Popular []Popularity `json:"popular"`

	// Isolated lists nodes with neither incoming nor outgoing edges,
	// in creation order.
	Isolated []string `json:"isolated"`

	// Clusters partitions all nodes into weakly connected components. Clusters
	// appear in discovery order (by their earliest node) and list their
	// members in creation order.
	Clusters [][]string `json:"clusters"`

	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// Analyze computes popularity, isolation and clusters for g.
// It is total: a nil or empty graph yields an empty Result.
func Analyze(g *graph.Graph) Result {
	res := Result{
		Popular:  []Popularity{},
		Isolated: []string{},
		Clusters: [][]string{},
	}
	if g == nil {
		return res
	}

	nodes := g.Nodes()
	res.NodeCount = len(nodes)
	res.EdgeCount = g.EdgeCount()

	res.Popular = make([]Popularity, len(nodes))
	for i, id := range nodes {
		res.Popular[i] = Popularity{Node: id, InDegree: g.InDegree(id)}
	}
	slices.SortStableFunc(res.Popular, func(a, b Popularity) int {
		return b.InDegree - a.InDegree
	})

	for _, id := range nodes {
		if g.Degree(id) == 0 {
			res.Isolated = append(res.Isolated, id)
		}
	}

	res.Clusters = weakComponents(g, nodes)
	return res
}

// weakComponents walks the graph with edge direction ignored. Each search
// starts at the earliest unvisited node so clusters come out in creation
// order of their first member.
func weakComponents(g *graph.Graph, nodes []string) [][]string {
	seen := make(map[string]bool, len(nodes))
	clusters := [][]string{}

	for _, start := range nodes {
		if seen[start] {
			continue
		}
		seen[start] = true
		members := []string{start}
		queue := []string{start}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, n := range g.Neighbors(id) {
				if !seen[n] {
					seen[n] = true
					members = append(members, n)
					queue = append(queue, n)
				}
			}
		}
		slices.SortFunc(members, func(a, b string) int {
			return g.Position(a) - g.Position(b)
		})
		clusters = append(clusters, members)
	}
	return clusters
}

// Top returns the n most chosen nodes, or all of them if there are fewer.
// A negative n returns the full ranking.
func (r Result) Top(n int) []Popularity {
	if n < 0 || n > len(r.Popular) {
		n = len(r.Popular)
	}
	return r.Popular[:n]
}

// InDegree returns how often node was chosen and whether it is in the graph.
func (r Result) InDegree(node string) (int, bool) {
	for _, p := range r.Popular {
		if p.Node == node {
			return p.InDegree, true
		}
	}
	return 0, false
}

// ClusterOf returns the 0-based index of the cluster containing node,
// or -1 if the node is unknown.
func (r Result) ClusterOf(node string) int {
	for i, c := range r.Clusters {
		if slices.Contains(c, node) {
			return i
		}
	}
	return -1
}

// IsIsolated reports whether node has no connections at all.
func (r Result) IsIsolated(node string) bool {
	return slices.Contains(r.Isolated, node)
}
