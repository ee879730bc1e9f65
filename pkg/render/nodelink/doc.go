// Package nodelink draws sociograms as node-link diagrams.
//
// # Usage
//
// Convert an analyzed graph to DOT, then render to SVG:
//
//	res := sociogram.Analyze(g)
//	dot := nodelink.ToDOT(g, res, nodelink.Options{Title: "Sociogram", Highlight: 3})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Every participant is an ellipse and every choice an arrow from chooser to
// chosen. The most chosen nodes are filled gold, isolated nodes grey with a
// dashed outline. A reciprocal pair of choices is drawn once as a bold
// double-headed edge. With [Options.Clusters] set, each multi-member cluster
// is boxed in a dashed subgraph.
//
// Layout is entirely up to Graphviz. [Options.Engine] picks the engine;
// neato and fdp give the force-directed look people expect from a sociogram,
// dot gives a layered one.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
