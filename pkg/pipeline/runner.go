package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sociogram/pkg/cache"
	"github.com/matzehuels/sociogram/pkg/errors"
	"github.com/matzehuels/sociogram/pkg/graph"
	"github.com/matzehuels/sociogram/pkg/observability"
	"github.com/matzehuels/sociogram/pkg/preferences"
	"github.com/matzehuels/sociogram/pkg/sociogram"
)

// Cache key types reported to observability hooks.
const (
	keyTypeAnalysis = "analysis"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different preference sets.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs analyze → render for set with caching. The set is read but
// never modified; callers collecting submissions concurrently should pass a
// [preferences.Store.Snapshot].
func (r *Runner) Execute(ctx context.Context, set *preferences.Set, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	setHash, err := cache.HashJSON(set)
	if err != nil {
		return nil, err
	}
	result := &Result{SetHash: setHash}

	// Stage 1: Analyze
	analyzeStart := time.Now()
	g, res, hit := r.AnalyzeWithCacheInfo(ctx, set, setHash, opts)
	result.Graph = g
	result.Analysis = res
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.Participants = set.Len()
	result.Stats.NodeCount = res.NodeCount
	result.Stats.EdgeCount = res.EdgeCount
	result.CacheInfo.AnalysisHit = hit
	result.Report = sociogram.ReportTop(res, opts.TopN)

	r.Logger.Info("analyzed sociogram",
		"participants", result.Stats.Participants,
		"nodes", res.NodeCount,
		"edges", res.EdgeCount,
		"isolated", len(res.Isolated),
		"clusters", len(res.Clusters),
		"duration", result.Stats.AnalyzeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, res, setHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo builds the graph and returns its analysis, reading and
// writing the analysis cache. The graph itself is always rebuilt since the
// render stage needs it. Cache failures degrade to recomputation.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, set *preferences.Set, setHash string, opts Options) (*graph.Graph, sociogram.Result, bool) {
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, set.Len())
	start := time.Now()

	g := sociogram.Build(set)
	key := r.Keyer.AnalysisKey(setHash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "key_type", keyTypeAnalysis, "err", err)
		} else if hit {
			var res sociogram.Result
			if err := json.Unmarshal(data, &res); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeAnalysis)
				hooks.OnAnalyzeComplete(ctx, res.NodeCount, res.EdgeCount, time.Since(start), nil)
				return g, res, true
			}
			r.Logger.Debug("discarding undecodable cache entry", "key", key)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeAnalysis)
	}

	res := sociogram.Analyze(g)
	hooks.OnAnalyzeComplete(ctx, res.NodeCount, res.EdgeCount, time.Since(start), nil)

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, keyTypeAnalysis, key, data, cache.TTLAnalysis)
	}
	return g, res, false
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// A hit means every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, res sociogram.Result, setHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(setHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, g, res, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(setHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, keyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
