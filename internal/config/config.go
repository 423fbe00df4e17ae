// Package config loads lookup service configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"line-lookup/internal/strategy"
)

// ErrInvalidConfig is returned when configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all lookup service configuration.
type Config struct {
	// Lookup file and query mode
	Lookup LookupConfig `yaml:"lookup"`

	// HTTP server
	Server ServerConfig `yaml:"server"`

	// SQLite index used by the sqlite strategy and cmd/index
	Index IndexConfig `yaml:"index"`

	// External tool locations
	Tools ToolsConfig `yaml:"tools"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LookupConfig configures the lookup facade.
type LookupConfig struct {
	File          string   `yaml:"file"`
	RereadOnQuery bool     `yaml:"reread_on_query"`
	MaxLineSize   int      `yaml:"max_line_size"`
	Strategies    []string `yaml:"strategies"` // exposed per-strategy endpoints; empty means all
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

// IndexConfig configures the SQLite line index.
type IndexConfig struct {
	Path string `yaml:"path"` // empty means a private in-memory index
}

// ToolsConfig names the external search tools.
type ToolsConfig struct {
	Grep string `yaml:"grep"`
	Awk  string `yaml:"awk"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Lookup: LookupConfig{
			File:        "valid_codes.txt",
			MaxLineSize: 16 * 1024 * 1024,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Tools: ToolsConfig{
			Grep: "grep",
			Awk:  "awk",
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LOOKUP_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("LOOKUP_FILE"); v != "" {
		c.Lookup.File = v
	}
	if v := os.Getenv("LOOKUP_REREAD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: LOOKUP_REREAD: %w", ErrInvalidConfig, err)
		}
		c.Lookup.RereadOnQuery = b
	}
	if v := os.Getenv("LOOKUP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOOKUP_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("LOOKUP_INDEX_PATH"); v != "" {
		c.Index.Path = v
	}
	if v := os.Getenv("LOOKUP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	if c.Lookup.File == "" {
		return fmt.Errorf("%w: lookup.file is required", ErrInvalidConfig)
	}
	if c.Lookup.MaxLineSize < 0 {
		return fmt.Errorf("%w: lookup.max_line_size must not be negative", ErrInvalidConfig)
	}
	for i, name := range c.Lookup.Strategies {
		if !strategy.Valid(name) {
			return fmt.Errorf("%w: lookup.strategies[%d]: unknown strategy %q", ErrInvalidConfig, i, name)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// EnabledStrategies returns the configured strategy names, or all of them.
func (c Config) EnabledStrategies() []string {
	if len(c.Lookup.Strategies) == 0 {
		return strategy.Names()
	}
	return c.Lookup.Strategies
}

// StrategyOptions translates tool and index settings into strategy options.
func (c Config) StrategyOptions() []strategy.Option {
	return []strategy.Option{
		strategy.WithGrep(c.Tools.Grep),
		strategy.WithAwk(c.Tools.Awk),
		strategy.WithIndexDSN(c.Index.Path),
		strategy.WithMaxLineSize(c.Lookup.MaxLineSize),
	}
}
