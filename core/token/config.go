package token

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/sealbox/core/compress"
)

// Config provides environment-based configuration for the token manager.
type Config struct {
	// Compression names the default compression algorithm: "none",
	// "brotli", "deflate", or "zlib". Empty keeps the provider's best
	// available algorithm.
	Compression string `env:"TOKEN_COMPRESSION" envDefault:""`
	// TTL is the default token time-to-live. Zero disables the TTL field.
	TTL time.Duration `env:"TOKEN_TTL" envDefault:"0"`
	// IncludeTimestamp embeds the encode time in every token by default.
	IncludeTimestamp bool `env:"TOKEN_INCLUDE_TIMESTAMP" envDefault:"false"`
}

// DefaultConfig returns a Config matching the zero-environment defaults.
func DefaultConfig() Config {
	return Config{
		Compression:      "",
		TTL:              0,
		IncludeTimestamp: false,
	}
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse token config: %w", err)
	}
	return cfg, nil
}

// NewFromConfig creates a Manager from configuration. Explicit options
// override config values.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	defaults := make([]EncodeOption, 0, 3)

	if cfg.Compression != "" {
		algorithm, err := compress.ParseAlgorithm(cfg.Compression)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, cfg.Compression)
		}
		defaults = append(defaults, WithCompression(algorithm))
	}
	if cfg.TTL > 0 {
		defaults = append(defaults, WithTTL(cfg.TTL))
	}
	if cfg.IncludeTimestamp {
		defaults = append(defaults, WithTimestamp(true))
	}

	// Config defaults first so explicit options win.
	combined := make([]Option, 0, len(opts)+1)
	combined = append(combined, WithEncodeDefaults(defaults...))
	combined = append(combined, opts...)

	return New(combined...), nil
}
