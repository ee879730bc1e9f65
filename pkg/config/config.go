// Package config loads sociogram settings from a TOML file, a .env file and
// the environment, in increasing order of precedence.
//
// A complete file looks like this:
//
//	[server]
//	addr = ":8080"
//	mentor_token = "change-me"
//	read_timeout = "10s"
//
//	[cache]
//	backend = "redis"          # none | file | redis
//	dir = ""                   # file backend; defaults to the XDG cache dir
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[log]
//	level = "info"
//
//	[report]
//	top = 5
//
// Every key is optional. Unknown keys are rejected so typos surface early.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/sociogram/pkg/errors"
)

const appName = "sociogram"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Environment variables that override file settings.
const (
	EnvAddr        = "SOCIOGRAM_ADDR"
	EnvMentorToken = "SOCIOGRAM_MENTOR_TOKEN"
	EnvCache       = "SOCIOGRAM_CACHE"
	EnvCacheDir    = "SOCIOGRAM_CACHE_DIR"
	EnvRedisAddr   = "SOCIOGRAM_REDIS_ADDR"
	EnvLogLevel    = "SOCIOGRAM_LOG_LEVEL"
)

// DotEnvFile is read before the environment is consulted. A missing file is
// not an error. Variables already set in the environment win.
var DotEnvFile = ".env"

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
	Report ReportConfig `toml:"report"`
}

// ServerConfig configures "sociogram serve".
type ServerConfig struct {
	Addr string `toml:"addr"`

	// MentorToken guards the analysis and report endpoints. Empty disables
	// every mentor-only route.
	MentorToken string `toml:"mentor_token"`

	ReadTimeout time.Duration `toml:"read_timeout"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// ReportConfig configures the text report.
type ReportConfig struct {
	Top int `toml:"top"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			ReadTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend: BackendNone,
		},
		Log: LogConfig{
			Level: "info",
		},
		Report: ReportConfig{
			Top: 5,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sociogram/config.toml, falling back
// to ~/.config/sociogram/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/sociogram, falling back to
// ~/.cache/sociogram.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load builds the configuration. If path is empty, [DefaultPath] is tried
// and silently skipped when absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", DotEnvFile)
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !errors.Is(err, errors.ErrCodeFileNotFound) {
				return nil, err
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvMentorToken); v != "" {
		c.Server.MentorToken = v
	}
	if v := os.Getenv(EnvCache); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.ReadTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.read_timeout must not be negative")
	}
	backends := []string{BackendNone, BackendFile, BackendRedis}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of: %s", c.Cache.Backend, strings.Join(backends, ", "))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	if c.Report.Top < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "report.top must not be negative, got %d", c.Report.Top)
	}
	return nil
}

// LogLevel returns the parsed log level, or info if it does not parse.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
