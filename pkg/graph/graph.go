package graph

import (
	"errors"
	"slices"
)

// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge] when a
// node ID is empty. All nodes must have non-empty identifiers.
var ErrInvalidNodeID = errors.New("node ID must not be empty")

// Edge represents a directed connection From → To.
type Edge struct {
	From string // Source node ID (the one who chose)
	To   string // Target node ID (the one who was chosen)
}

// Graph is a directed graph without parallel edges. Nodes are identified by
// string IDs and remembered in the order they were first created, which makes
// every traversal over the graph deterministic.
//
// Self-loops are permitted and count once towards both in- and out-degree.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	order    []string            // node IDs in creation order
	index    map[string]int      // nodeID -> position in order
	edges    []Edge              // edges in insertion order
	outgoing map[string][]string // nodeID -> successor IDs
	incoming map[string][]string // nodeID -> predecessor IDs
	edgeSet  map[Edge]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:    make(map[string]int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		edgeSet:  make(map[Edge]struct{}),
	}
}

// AddNode adds a node if it does not exist yet. Adding an existing node is a
// no-op and keeps its original creation position. Returns ErrInvalidNodeID
// if id is empty.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	g.ensure(id)
	return nil
}

// AddEdge adds the directed edge from → to, implicitly creating either
// endpoint if unseen (from first, then to). Adding an edge that already
// exists is a no-op. Returns ErrInvalidNodeID if either endpoint is empty.
//
// Unlike the DAG used for layered layouts, unknown endpoints are not an
// error: naming a node is enough to bring it into the graph.
func (g *Graph) AddEdge(from, to string) error {
	if from == "" || to == "" {
		return ErrInvalidNodeID
	}
	g.ensure(from)
	g.ensure(to)

	e := Edge{From: from, To: to}
	if _, dup := g.edgeSet[e]; dup {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

func (g *Graph) ensure(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
}

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// HasEdge reports whether the edge from → to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[Edge{From: from, To: to}]
	return ok
}

// Nodes returns a copy of all node IDs in creation order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Position returns the creation index of the node, or -1 if it doesn't exist.
func (g *Graph) Position(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Successors returns the IDs of nodes this node has edges to.
// Returns nil if the node has none or doesn't exist. The returned slice
// should not be modified - use it as a read-only view.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of nodes that have edges to this node.
// Returns nil if the node has none or doesn't exist. The returned slice
// should not be modified - use it as a read-only view.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node, which equals
// the number of distinct predecessors. Returns 0 if the node doesn't exist.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Degree returns InDegree + OutDegree.
func (g *Graph) Degree(id string) int { return g.InDegree(id) + g.OutDegree(id) }

// Neighbors returns the node's predecessors and successors with direction
// ignored, in adjacency order. A node may appear twice if it is both.
func (g *Graph) Neighbors(id string) []string {
	out := make([]string, 0, g.Degree(id))
	out = append(out, g.outgoing[id]...)
	return append(out, g.incoming[id]...)
}

// Sources returns nodes with no incoming edges, in creation order.
func (g *Graph) Sources() []string {
	var sources []string
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in creation order.
func (g *Graph) Sinks() []string {
	var sinks []string
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

// Clone returns an independent deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.order {
		c.ensure(id)
	}
	for _, e := range g.edges {
		_ = c.AddEdge(e.From, e.To)
	}
	return c
}

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
