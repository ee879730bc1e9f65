// Package sociogram analyzes who-wants-to-work-with-whom data.
//
// # Overview
//
// Each participant names the peers they prefer. Read as a directed graph,
// those answers show who is chosen most often, who is not connected to anyone,
// and which groups hang together. This package turns a [preferences.Set] into
// that graph, analyzes it, and renders a short text report.
//
// The three steps are pure functions:
//
//	g := sociogram.Build(set)       // preferences → directed graph
//	res := sociogram.Analyze(g)     // graph → Result
//	text := sociogram.Report(res)   // Result → plain text
//
// Running them twice on the same input gives identical output.
//
// # Analysis
//
// [Analyze] computes:
//
//   - Popularity: every node with its in-degree, most chosen first. Ties keep
//     the order nodes were first seen, so the ranking is stable.
//   - Isolation: nodes with no incoming and no outgoing edges. Someone who
//     only chose others, or was only chosen, is not isolated.
//   - Clusters: weakly connected components. Edge direction is ignored, and
//     every node lands in exactly one cluster; isolated nodes form singletons.
//
// # Names
//
// Names are compared literally. A peer typed as "bob" is a different node from
// a participant "Bob". Normalizing names is the job of whoever collects them.
//
// [preferences.Set]: github.com/matzehuels/sociogram/pkg/preferences.Set
package sociogram
