package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/sociogram/pkg/graph"
	sgio "github.com/matzehuels/sociogram/pkg/io"
	"github.com/matzehuels/sociogram/pkg/render/nodelink"
	"github.com/matzehuels/sociogram/pkg/sociogram"
)

// Render generates output artifacts in the requested formats.
// res must be the analysis of g.
func Render(ctx context.Context, g *graph.Graph, res sociogram.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	if opts.Wants(FormatDOT) || opts.Wants(FormatSVG) {
		dot = nodelink.ToDOT(g, res, opts.NodelinkOptions())
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatTXT:
			data = []byte(sociogram.ReportTop(res, opts.TopN))
		case FormatJSON:
			var buf bytes.Buffer
			err = sgio.WriteResultJSON(res, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
