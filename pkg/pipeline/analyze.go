package pipeline

import (
	"github.com/matzehuels/sociogram/pkg/graph"
	"github.com/matzehuels/sociogram/pkg/preferences"
	"github.com/matzehuels/sociogram/pkg/sociogram"
)

// Analyze builds the graph for set and analyzes it. It never fails: an
// empty or nil set yields an empty graph and an empty result.
func Analyze(set *preferences.Set) (*graph.Graph, sociogram.Result) {
	g := sociogram.Build(set)
	return g, sociogram.Analyze(g)
}
