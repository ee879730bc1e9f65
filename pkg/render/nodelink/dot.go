package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sociogram/pkg/graph"
	"github.com/matzehuels/sociogram/pkg/sociogram"
)

// Layout engines accepted in [Options.Engine].
const (
	EngineDot   = "dot"
	EngineNeato = "neato"
	EngineFdp   = "fdp"
	EngineCirco = "circo"
)

// Engines lists the supported Graphviz layout engines.
var Engines = []string{EngineDot, EngineNeato, EngineFdp, EngineCirco}

// Options configures sociogram diagram generation.
type Options struct {
	// Title is drawn above the diagram. Empty omits it.
	Title string

	// Engine selects the Graphviz layout engine. Empty means dot.
	Engine string

	// Highlight is how many of the most chosen nodes get the accent fill.
	// Nodes nobody chose are never highlighted.
	Highlight int

	// Counts appends the in-degree to each label, e.g. "C (2)".
	Counts bool

	// Clusters boxes each multi-member cluster in its own subgraph.
	Clusters bool
}

const (
	fillDefault  = "lightblue"
	fillPopular  = "gold"
	fillIsolated = "lightgrey"
)

// ToDOT converts a sociogram to Graphviz DOT.
//
// res must be the analysis of g. Popular nodes are filled gold, isolated
// nodes are grey and dashed, and reciprocal choices (A chose B and B chose A)
// are merged into one bold double-headed edge.
func ToDOT(g *graph.Graph, res sociogram.Result, opts Options) string {
	popular := make(map[string]bool)
	for _, p := range res.Top(opts.Highlight) {
		if p.InDegree > 0 {
			popular[p.Node] = true
		}
	}
	isolated := make(map[string]bool, len(res.Isolated))
	for _, id := range res.Isolated {
		isolated[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph sociogram {\n")
	if opts.Engine != "" && opts.Engine != EngineDot {
		fmt.Fprintf(&buf, "  layout=%s;\n", opts.Engine)
		buf.WriteString("  overlap=false;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=28;\n", opts.Title)
	}
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=" + fillDefault + ", fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.8];\n")
	buf.WriteString("\n")

	writeNode := func(indent, id string) {
		attrs := nodeAttrs(g, id, popular[id], isolated[id], opts.Counts)
		fmt.Fprintf(&buf, "%s%q [%s];\n", indent, id, strings.Join(attrs, ", "))
	}

	if opts.Clusters {
		for i, members := range res.Clusters {
			if len(members) < 2 {
				for _, id := range members {
					writeNode("  ", id)
				}
				continue
			}
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i+1)
			fmt.Fprintf(&buf, "    label=\"Cluster %d\";\n    style=dashed;\n    color=grey;\n", i+1)
			for _, id := range members {
				writeNode("    ", id)
			}
			buf.WriteString("  }\n")
		}
	} else {
		for _, id := range g.Nodes() {
			writeNode("  ", id)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		mutual := e.From != e.To && g.HasEdge(e.To, e.From)
		switch {
		case mutual && g.Position(e.From) > g.Position(e.To):
			// drawn once from the earlier node
		case mutual:
			fmt.Fprintf(&buf, "  %q -> %q [dir=both, penwidth=2];\n", e.From, e.To)
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *graph.Graph, id string, popular, isolated, counts bool) []string {
	label := id
	if counts {
		label = fmt.Sprintf("%s (%d)", id, g.InDegree(id))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case popular:
		attrs = append(attrs, "fillcolor="+fillPopular, "penwidth=2")
	case isolated:
		attrs = append(attrs, "fillcolor="+fillIsolated, "style=\"filled,dashed\"")
	}
	return attrs
}

// ValidEngine reports whether engine is empty or one of [Engines].
func ValidEngine(engine string) bool {
	return engine == "" || slices.Contains(Engines, engine)
}

// RenderSVG lays out and renders DOT source to SVG in-process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// viewBox-only one so the SVG scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
