package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sociogram/pkg/cache"
	"github.com/matzehuels/sociogram/pkg/config"
	"github.com/matzehuels/sociogram/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sociogram"

	// redisKeyPrefix namespaces keys in a shared Redis instance.
	redisKeyPrefix = "sociogram:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	cfg := config.Default()
	return &CLI{
		Logger: newLogger(w, level),
		Config: &cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// noCache forces caching off regardless of configuration.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// openCache builds the cache selected by the configuration.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), nil, nil
	}

	switch c.Config.Cache.Backend {
	case config.BackendFile:
		dir, err := cacheDir(c.Config)
		if err != nil {
			return nil, nil, fmt.Errorf("get cache dir: %w", err)
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("using file cache", "dir", dir)
		return fc, nil, nil

	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("using redis cache", "addr", c.Config.Cache.RedisAddr)
		return rc, cache.NewScopedKeyer(nil, redisKeyPrefix), nil

	default:
		return cache.NewNullCache(), nil, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/sociogram/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags holds the plot options shared by commands that draw the graph.
type renderFlags struct {
	title     string
	engine    string
	highlight int
	counts    bool
	clusters  bool
}

// apply copies the flags onto opts.
func (f renderFlags) apply(opts *pipeline.Options) {
	opts.Title = f.title
	opts.Engine = f.engine
	opts.Highlight = f.highlight
	opts.Counts = f.counts
	opts.Clusters = f.clusters
}
