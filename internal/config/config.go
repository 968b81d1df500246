// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - Durations are configured in milliseconds and exposed as time.Duration helpers.
// - Failures wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Accepted values for LogFormat and GinMode.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"

	GinModeDebug   = "debug"
	GinModeRelease = "release"
	GinModeTest    = "test"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// GinMode is passed to gin.SetMode: debug, release or test.
	GinMode string `koanf:"gin_mode"`

	ReadTimeoutMS       int `koanf:"read_timeout_ms"`
	WriteTimeoutMS      int `koanf:"write_timeout_ms"`
	IdleTimeoutMS       int `koanf:"idle_timeout_ms"`
	ReadHeaderTimeoutMS int `koanf:"read_header_timeout_ms"`

	// ShutdownTimeoutMS bounds graceful shutdown after a termination signal.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// MetricsEnabled toggles Prometheus recording. /metrics stays mounted.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsIntervalMS is how often runtime gauges are sampled.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`
}

// New returns a Config populated with defaults. The context is reserved for
// loaders that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           LogFormatText,
		Addr:                ":3000",
		GinMode:             GinModeRelease,
		ReadTimeoutMS:       10_000,
		WriteTimeoutMS:      10_000,
		IdleTimeoutMS:       60_000,
		ReadHeaderTimeoutMS: 5_000,
		ShutdownTimeoutMS:   30_000,
		MetricsEnabled:      true,
		MetricsIntervalMS:   10_000,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}

	switch c.GinMode {
	case GinModeDebug, GinModeRelease, GinModeTest:
	default:
		return fmt.Errorf("%w: gin_mode %q must be debug, release or test", ErrInvalidConfig, c.GinMode)
	}

	positive := []struct {
		name  string
		value int
	}{
		{"read_timeout_ms", c.ReadTimeoutMS},
		{"write_timeout_ms", c.WriteTimeoutMS},
		{"idle_timeout_ms", c.IdleTimeoutMS},
		{"read_header_timeout_ms", c.ReadHeaderTimeoutMS},
		{"shutdown_timeout_ms", c.ShutdownTimeoutMS},
		{"metrics_interval_ms", c.MetricsIntervalMS},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}
	return nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (c *Config) ReadTimeout() time.Duration       { return ms(c.ReadTimeoutMS) }
func (c *Config) WriteTimeout() time.Duration      { return ms(c.WriteTimeoutMS) }
func (c *Config) IdleTimeout() time.Duration       { return ms(c.IdleTimeoutMS) }
func (c *Config) ReadHeaderTimeout() time.Duration { return ms(c.ReadHeaderTimeoutMS) }
func (c *Config) ShutdownTimeout() time.Duration   { return ms(c.ShutdownTimeoutMS) }
func (c *Config) MetricsInterval() time.Duration   { return ms(c.MetricsIntervalMS) }
