package token

import (
	"time"

	"github.com/dmitrymomot/sealbox/core/compress"
	"github.com/dmitrymomot/sealbox/core/crypt"
)

// Option configures the Manager itself: the compression capability
// provider, the clock, and the defaults applied to every Encode call.
type Option func(*Manager)

// WithProvider sets the compression capability provider. The encode default
// compression is resolved against it, so a restricted provider lowers the
// default automatically.
func WithProvider(p compress.Provider) Option {
	return func(m *Manager) {
		if p != nil {
			m.provider = p
		}
	}
}

// WithClock replaces the wall clock used for token timestamps and expiry
// checks. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithEncodeDefaults sets the default encode options applied to every
// Encode call. Per-call options still override them.
func WithEncodeDefaults(opts ...EncodeOption) Option {
	return func(m *Manager) {
		m.defaultOpts = append(m.defaultOpts, opts...)
	}
}

// EncodeOptions configures a single Encode call. Every field has an
// explicit default: the provider's best compression, AES-256-GCM, no
// timestamp, no TTL.
type EncodeOptions struct {
	// Compression selects the wire compression algorithm.
	Compression compress.Algorithm
	// Algorithm selects the encryption algorithm.
	Algorithm crypt.Algorithm
	// IncludeTimestamp embeds the encode time (whole seconds) in the header.
	IncludeTimestamp bool
	// TTL embeds a time-to-live in the header. Expiry is only enforced when
	// the token also carries a timestamp. Zero means no TTL field.
	TTL time.Duration
}

// EncodeOption is a functional option for configuring a single Encode call.
type EncodeOption func(*EncodeOptions)

// WithCompression sets the compression algorithm recorded in the token
// header.
func WithCompression(algorithm compress.Algorithm) EncodeOption {
	return func(o *EncodeOptions) {
		o.Compression = algorithm
	}
}

// WithAlgorithm sets the encryption algorithm.
func WithAlgorithm(algorithm crypt.Algorithm) EncodeOption {
	return func(o *EncodeOptions) {
		o.Algorithm = algorithm
	}
}

// WithTimestamp controls whether the encode time is embedded in the header.
func WithTimestamp(include bool) EncodeOption {
	return func(o *EncodeOptions) {
		o.IncludeTimestamp = include
	}
}

// WithTTL sets the token time-to-live. The wire stores whole seconds, so
// the duration rounds down; anything under one second rounds to zero and
// the TTL field is omitted entirely. A token expires only when it carries
// both a TTL and a timestamp; combine with WithTimestamp(true).
func WithTTL(ttl time.Duration) EncodeOption {
	return func(o *EncodeOptions) {
		o.TTL = ttl
	}
}

// applyEncodeOptions creates a new EncodeOptions by copying base options and
// applying modifications. This prevents accidental mutation of shared
// defaults.
func applyEncodeOptions(base EncodeOptions, opts []EncodeOption) EncodeOptions {
	result := EncodeOptions{
		Compression:      base.Compression,
		Algorithm:        base.Algorithm,
		IncludeTimestamp: base.IncludeTimestamp,
		TTL:              base.TTL,
	}

	for _, opt := range opts {
		opt(&result)
	}

	return result
}
