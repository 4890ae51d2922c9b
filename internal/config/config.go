// Package config defines all configuration structures for molsift.  No I/O
// or parsing logic lives in this file — only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/molsift/molsift/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables for `molsift serve`.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PipelineConfig holds batch-pipeline tunables.
type PipelineConfig struct {
	// NamePrefix is used to synthesise a name for records that carry no
	// name token: "<prefix>_<line-number>".
	NamePrefix string `mapstructure:"name_prefix"`

	// Rules restricts evaluation to the named rule sets.  Empty means all
	// configured rules, in their documented order.
	Rules []string `mapstructure:"rules"`
}

// StoreConfig holds parameters of the optional SQLite result store.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Top-level Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.  It is read-only after loading;
// every component receives the sub-struct it needs via constructor injection
// rather than reaching for a global.
type Config struct {
	Log      logging.Config `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Store    StoreConfig    `mapstructure:"store"`
}

// Validate checks cross-field constraints that ApplyDefaults cannot repair.
// A validation failure is a ConfigurationError: fatal before any record is
// processed.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug|release|test, got %q", c.Server.Mode)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug|info|warn|error, got %q", c.Log.Level)
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("store.path must be set when store.enabled is true")
	}
	return nil
}
