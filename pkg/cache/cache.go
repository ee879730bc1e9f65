// Package cache stores derived sociogram artifacts keyed by content hash.
//
// Only outputs computed from a preference set are cached: analysis results,
// reports, DOT text and rendered SVG. Keys are built from the SHA-256 of the
// set's canonical JSON, so any change to the submissions produces a new key
// and stale entries simply age out. Submissions themselves are never written
// to a cache.
//
// Three backends are provided:
//
//   - [NullCache]: stores nothing (the default)
//   - [FileCache]: one JSON file per entry under a local directory
//   - [RedisCache]: a shared Redis instance for multi-process servers
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	TTLAnalysis = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// AnalysisKey returns the key for the analysis of a preference set.
	AnalysisKey(setHash string) string

	// ArtifactKey returns the key for one rendered output of a preference set.
	ArtifactKey(setHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	TopN      int    `json:"top_n,omitempty"`
	Title     string `json:"title,omitempty"`
	Engine    string `json:"engine,omitempty"`
	Highlight int    `json:"highlight,omitempty"`
	Counts    bool   `json:"counts,omitempty"`
	Clusters  bool   `json:"clusters,omitempty"`
}

// DefaultKeyer produces keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AnalysisKey implements [Keyer].
func (DefaultKeyer) AnalysisKey(setHash string) string {
	return hashKey("analysis", setHash)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(setHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", setHash, opts)
}

var _ Keyer = DefaultKeyer{}
