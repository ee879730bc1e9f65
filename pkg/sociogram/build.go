package sociogram

import (
	"github.com/matzehuels/sociogram/pkg/graph"
	"github.com/matzehuels/sociogram/pkg/preferences"
)

// Build creates the preference graph for a set of submissions.
//
// Participants are visited in submission order. Each participant becomes a
// node, then an edge participant → peer is added for every listed peer,
// creating the peer node on first mention. Peers who never submitted still
// appear in the graph, and participants who listed nobody appear as nodes
// without outgoing edges. Repeated preferences collapse into one edge.
//
// Names are matched literally: "Bob" and "bob " are different nodes.
// A nil or empty set yields an empty graph.
func Build(set *preferences.Set) *graph.Graph {
	g := graph.New()
	for _, e := range set.Entries() {
		if g.AddNode(e.Participant) != nil {
			continue
		}
		for _, peer := range e.Peers {
			_ = g.AddEdge(e.Participant, peer)
		}
	}
	return g
}
