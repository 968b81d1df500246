package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. AWAKEN_ADDR.
	EnvPrefix = "AWAKEN_"

	// EnvConfigFile names a YAML file to load between defaults and env.
	EnvConfigFile = EnvPrefix + "CONFIG"
)

type loadOptions struct {
	file string
}

// LoadOption adjusts a single Load call.
type LoadOption func(*loadOptions)

// WithFile loads the given YAML file instead of the one named by AWAKEN_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.file = path
		}
	}
}

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. YAML file from WithFile or AWAKEN_CONFIG
//  3. env (prefix AWAKEN_)
func Load(ctx context.Context, opts ...LoadOption) (*Config, error) {
	o := loadOptions{file: os.Getenv(EnvConfigFile)}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := New(ctx)
	k := koanf.New(".")

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, o.file, err)
		}
	}

	// AWAKEN_READ_TIMEOUT_MS -> read_timeout_ms. Keys are flat so underscores
	// are kept and the "." delimiter never appears.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
