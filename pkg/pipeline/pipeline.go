// Package pipeline runs the sociogram build → analyze → render pipeline.
//
// The CLI and the HTTP server both go through this package, so a report
// downloaded from the server and one printed by "sociogram analyze" are
// byte-for-byte the same.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Analyze: build the directed graph from a preference set and compute
//     popularity, isolation and clusters
//  2. Render: produce artifacts (text report, result JSON, DOT, SVG)
//
// Both stages are cached by the SHA-256 of the preference set's canonical
// JSON, so repeated requests for an unchanged class are served from cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, store.Snapshot(), pipeline.Options{
//	    Formats: []string{pipeline.FormatTXT, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Report)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sociogram/pkg/cache"
	"github.com/matzehuels/sociogram/pkg/graph"
	"github.com/matzehuels/sociogram/pkg/render/nodelink"
	"github.com/matzehuels/sociogram/pkg/sociogram"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultTopN is how many nodes the popularity section of the report lists.
	DefaultTopN = sociogram.DefaultTopN

	// DefaultHighlight is how many of the most chosen nodes the diagram accents.
	DefaultHighlight = 3

	// DefaultTitle is drawn above rendered diagrams.
	DefaultTitle = "Sociogram"
)

// Format constants for output formats.
const (
	FormatTXT  = "txt"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTXT:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatTXT:  "text/plain; charset=utf-8",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatSVG:  "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Report options
	TopN int `json:"top_n,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Title     string   `json:"title,omitempty"`
	Engine    string   `json:"engine,omitempty"`
	Highlight int      `json:"highlight,omitempty"`
	Counts    bool     `json:"counts,omitempty"`
	Clusters  bool     `json:"clusters,omitempty"`

	// Refresh skips cache reads; fresh results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the directed graph built from the preference set.
	Graph *graph.Graph

	// SetHash is the content hash of the preference set.
	SetHash string

	// Analysis is the popularity, isolation and cluster analysis.
	Analysis sociogram.Result

	// Report is the plain-text report. It is always produced, whether or
	// not FormatTXT was requested.
	Report string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Participants int
	NodeCount    int
	EdgeCount    int
	AnalyzeTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalysisHit bool // Whether the analysis came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: txt, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a Graphviz layout engine is supported.
func ValidateEngine(engine string) error {
	if !nodelink.ValidEngine(engine) {
		return fmt.Errorf("invalid engine: %q (must be one of: %s)", engine, strings.Join(nodelink.Engines, ", "))
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming spaces and
// dropping duplicates. An empty string yields nil.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if o.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", o.TopN)
	}
	if o.Highlight < 0 {
		return fmt.Errorf("highlight must not be negative, got %d", o.Highlight)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults fills in zero values.
func (o *Options) SetRenderDefaults() {
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTXT}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Highlight == 0 {
		o.Highlight = DefaultHighlight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// NodelinkOptions returns the diagram options for DOT and SVG output.
func (o *Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{
		Title:     o.Title,
		Engine:    o.Engine,
		Highlight: o.Highlight,
		Counts:    o.Counts,
		Clusters:  o.Clusters,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format. Only
// options that change that format's bytes are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	switch format {
	case FormatTXT:
		return cache.ArtifactKeyOpts{Format: format, TopN: o.TopN}
	case FormatDOT, FormatSVG:
		return cache.ArtifactKeyOpts{
			Format:    format,
			Title:     o.Title,
			Engine:    o.Engine,
			Highlight: o.Highlight,
			Counts:    o.Counts,
			Clusters:  o.Clusters,
		}
	default:
		return cache.ArtifactKeyOpts{Format: format}
	}
}
