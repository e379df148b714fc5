// Package config loads application configuration from TOML files.
//
// Configuration covers the boundary concerns outside the pure pipeline:
// where the HTTP server listens, which cache backend to use, and how many
// validation errors to report. Command-line flags override file values,
// and everything has a working default so no file is required at all.
//
// Example file:
//
//	listen = ":8080"
//	max_reported_errors = 200
//
//	[cache]
//	backend = "file"        # "file", "redis", or "none"
//	dir = "~/.cache/spanstack"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the [cache] section.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	// Listen is the HTTP API listen address.
	Listen string `toml:"listen"`

	// MaxReportedErrors caps how many row errors are surfaced per request.
	MaxReportedErrors int `toml:"max_reported_errors"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen:            ":8080",
		MaxReportedErrors: 200,
		Cache: CacheConfig{
			Backend:   BackendFile,
			Dir:       defaultCacheDir(),
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads a TOML config file, filling unset fields from Default.
// A missing file is not an error; it simply yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks config invariants that TOML decoding cannot express.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.MaxReportedErrors < 0 {
		return fmt.Errorf("max_reported_errors must be >= 0, got %d", c.MaxReportedErrors)
	}
	return nil
}

// defaultCacheDir places the cache under the user cache directory,
// falling back to a hidden directory in $HOME.
func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "spanstack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".spanstack", "cache")
}
