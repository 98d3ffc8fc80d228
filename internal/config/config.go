// Package config loads engine configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"metabind/internal/match"
	"metabind/internal/registry"
)

// Config is the engine configuration.
type Config struct {
	Registry   RegistryConfig   `yaml:"registry"`
	Introspect IntrospectConfig `yaml:"introspect"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	// Schemas lists schema files whose domains are discovered at startup.
	Schemas []string `yaml:"schemas,omitempty"`
}

// RegistryConfig bounds the model cache and domain discovery.
type RegistryConfig struct {
	Capacity  int             `yaml:"capacity"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// DiscoveryConfig configures the discovery worker pool.
type DiscoveryConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Workers int           `yaml:"workers"`
}

// IntrospectConfig configures model derivation.
type IntrospectConfig struct {
	NameStyle       string `yaml:"name_style"`
	AllowUnresolved bool   `yaml:"allow_unresolved"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables Prometheus registry metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)

	return &cfg
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML configuration, fills defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Registry.Capacity == 0 {
		cfg.Registry.Capacity = registry.DefaultCapacity
	}

	if cfg.Registry.Discovery.Timeout == 0 {
		cfg.Registry.Discovery.Timeout = registry.DefaultDiscoveryTimeout
	}

	if cfg.Registry.Discovery.Workers == 0 {
		cfg.Registry.Discovery.Workers = registry.DefaultDiscoveryWorkers
	}

	if cfg.Introspect.NameStyle == "" {
		cfg.Introspect.NameStyle = string(match.NameStyleCamel)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "metabind"
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Registry.Capacity < 0 {
		errs = append(errs, fmt.Errorf("registry.capacity: %d is negative", c.Registry.Capacity))
	}

	if c.Registry.Discovery.Timeout < 0 {
		errs = append(errs, fmt.Errorf("registry.discovery.timeout: %s is negative", c.Registry.Discovery.Timeout))
	}

	if c.Registry.Discovery.Workers < 0 {
		errs = append(errs, fmt.Errorf("registry.discovery.workers: %d is negative", c.Registry.Discovery.Workers))
	}

	if _, err := match.ParseNameStyle(c.Introspect.NameStyle); err != nil {
		errs = append(errs, fmt.Errorf("introspect.name_style: %w", err))
	}

	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func (l LogConfig) level() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", l.Level)
	}
}

// Logger builds a logger writing to w.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	level, _ := l.level()

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(l.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
