// Package render groups the sociogram renderers.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage is the only renderer. It converts an analyzed
// preference graph to Graphviz DOT and lays it out in-process:
//
//	dot := nodelink.ToDOT(g, res, nodelink.Options{Title: "Class 4b"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Callers that want every artifact at once, together with caching, should go
// through [pipeline.Runner] instead.
//
// [nodelink]: github.com/matzehuels/sociogram/pkg/render/nodelink
// [pipeline.Runner]: github.com/matzehuels/sociogram/pkg/pipeline
package render
