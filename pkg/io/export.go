package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sociogram/pkg/graph"
	"github.com/matzehuels/sociogram/pkg/sociogram"
)

type graphJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Edges []edgeJSON `json:"edges"`
}

type nodeJSON struct {
	ID        string `json:"id"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree"`
}

type edgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteGraphJSON encodes g as JSON and writes it to w. Nodes appear in
// creation order with their degrees, edges in insertion order:
//
//	{
//	  "nodes": [{"id": "A", "in_degree": 0, "out_degree": 2}],
//	  "edges": [{"from": "A", "to": "B"}]
//	}
func WriteGraphJSON(g *graph.Graph, w io.Writer) error {
	out := graphJSON{
		Nodes: make([]nodeJSON, 0, g.NodeCount()),
		Edges: make([]edgeJSON, 0, g.EdgeCount()),
	}
	for _, id := range g.Nodes() {
		out.Nodes = append(out.Nodes, nodeJSON{ID: id, InDegree: g.InDegree(id), OutDegree: g.OutDegree(id)})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edgeJSON{From: e.From, To: e.To})
	}
	return encode(w, out)
}

// ReadGraphJSON decodes the format written by [WriteGraphJSON]. Node order
// is restored from the nodes array, so a round trip preserves creation order.
func ReadGraphJSON(r io.Reader) (*graph.Graph, error) {
	var data graphJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	g := graph.New()
	for _, n := range data.Nodes {
		if err := g.AddNode(n.ID); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// WriteResultJSON encodes an analysis result as indented JSON.
func WriteResultJSON(res sociogram.Result, w io.Writer) error {
	return encode(w, res)
}

// ExportGraphJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteGraphJSON] for file-based output.
func ExportGraphJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraphJSON(g, f)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
