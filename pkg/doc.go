// Package pkg provides the core libraries for sociogram analysis.
//
// # Overview
//
// A sociogram maps who chose whom in a group. Each participant names the
// peers they prefer to work with; the libraries turn those choices into a
// directed graph, rank participants by how often they were chosen, find the
// people nobody chose, and draw the result.
//
// # Architecture
//
// The typical data flow:
//
//	preference file / HTTP submission
//	         ↓
//	    [preferences] (validate, normalize, store)
//	         ↓
//	    [graph] (directed choice graph)
//	         ↓
//	    [sociogram] (popularity, isolation, mutual pairs, clusters, report)
//	         ↓
//	    [render/nodelink] (DOT, SVG)
//
// [pipeline] runs the whole chain with caching and is shared by the CLI and
// the HTTP [server].
//
// # Quick Start
//
//	set, _ := sgio.ImportFile("class.json", "")
//	res, _ := pipeline.NewRunner(nil, nil, nil).Execute(ctx, set, pipeline.Options{
//	    Formats: []string{pipeline.FormatTXT, pipeline.FormatSVG},
//	})
//	fmt.Print(res.Report)
//
// # Supporting Packages
//
// [io] reads preference sets from JSON, YAML and CSV and writes graph JSON.
//
// [cache] stores derived artifacts on disk or in Redis, keyed by a hash of
// the inputs.
//
// [config] loads TOML configuration with environment overrides.
//
// [errors] defines the coded errors that the server maps to HTTP statuses.
//
// [observability] exposes hooks for pipeline, cache and HTTP events, with a
// Prometheus implementation.
//
// [buildinfo] carries the version stamped in at link time.
//
// [preferences]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/preferences
// [graph]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/graph
// [sociogram]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/sociogram
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/server
// [io]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/sociogram/pkg/buildinfo
package pkg
