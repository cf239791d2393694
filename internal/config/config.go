// Package config loads slashql configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the default name of the config file.
const ConfigFileName = "slashql.yaml"

// EnvPrefix prefixes environment overrides, e.g. SLASHQL_DATABASE.
const EnvPrefix = "SLASHQL_"

// Config holds all runtime settings.
type Config struct {
	// Database is the SQLite database file path. ":memory:" opens a
	// shared in-memory database.
	Database string `koanf:"database"`

	// PoolSize is the fixed number of pooled connections.
	PoolSize int `koanf:"pool_size"`

	// AcquireTimeout bounds how long a caller waits for a free
	// connection.
	AcquireTimeout time.Duration `koanf:"acquire_timeout"`

	// DefaultTable is the target for queries that name no table.
	DefaultTable string `koanf:"default_table"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:       "slashql.db",
		PoolSize:       5,
		AcquireTimeout: 5 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads configuration, layering file values over defaults and
// environment overrides over both. An empty path falls back to
// ConfigFileName in the working directory; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			path = ConfigFileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// SLASHQL_POOL_SIZE -> pool_size
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path is required")
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive, got %d", c.PoolSize)
	}
	if c.AcquireTimeout <= 0 {
		return fmt.Errorf("acquire_timeout must be positive, got %s", c.AcquireTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
