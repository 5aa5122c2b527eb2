package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/sealbox/core/codec"
	"github.com/dmitrymomot/sealbox/core/compress"
	"github.com/dmitrymomot/sealbox/core/crypt"
	"github.com/dmitrymomot/sealbox/core/header"
)

// Manager runs the token pipeline: serialize, compress, encrypt, pack
// metadata, base64url-encode, and the exact inverse. It holds only the
// injected compression provider, clock, and encode defaults; no state flows
// between calls, so one Manager may serve any number of concurrent
// operations.
type Manager struct {
	provider    compress.Provider
	now         func() time.Time
	defaults    EncodeOptions
	defaultOpts []EncodeOption
}

// New creates a token manager. Without options it uses the default
// compression provider, the wall clock, and encodes with the best available
// compression algorithm.
func New(opts ...Option) *Manager {
	m := &Manager{
		provider: compress.NewProvider(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	// Defaults resolve against the provider chosen above, so a restricted
	// provider automatically lowers the default compression.
	m.defaults = EncodeOptions{
		Compression: compress.DefaultAlgorithm(m.provider),
		Algorithm:   crypt.AESGCM256,
	}
	m.defaults = applyEncodeOptions(m.defaults, m.defaultOpts)

	return m
}

// Encode serializes data to JSON, compresses it, encrypts it under secret,
// and returns the opaque URL-safe token string. Every call produces a
// structurally new token even for identical input, because the IV (and the
// salt, for passphrase secrets) is drawn fresh from the CSPRNG.
func (m *Manager) Encode(ctx context.Context, data any, secret crypt.Secret, opts ...EncodeOption) (string, error) {
	o := applyEncodeOptions(m.defaults, opts)

	if !o.Algorithm.Valid() {
		return "", fmt.Errorf("%w: 0x%02x", header.ErrUnsupportedAlgorithm, byte(o.Algorithm))
	}
	if !o.Compression.Valid() {
		return "", fmt.Errorf("%w: 0x%02x", compress.ErrUnsupportedAlgorithm, byte(o.Compression))
	}

	plain, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	compressed, err := m.provider.For(o.Compression).Compress(ctx, plain)
	if err != nil {
		return "", err
	}

	sealed, err := crypt.Encrypt(compressed, secret)
	if err != nil {
		return "", err
	}

	meta := header.Metadata{
		Version:     header.Version,
		Algorithm:   o.Algorithm,
		Compression: o.Compression,
	}
	if o.IncludeTimestamp {
		meta.IssuedAt = m.now()
	}
	// The wire stores whole seconds; a TTL that truncates to zero is
	// omitted rather than written as a zero field the decoder rejects.
	if ttl := o.TTL.Truncate(time.Second); ttl > 0 {
		meta.TTL = ttl
	}

	packed, err := header.Pack(meta)
	if err != nil {
		return "", err
	}

	return codec.EncodeBase64URL(codec.Concat(packed, sealed.Salt, sealed.IV, sealed.Ciphertext)), nil
}

// Decode reverses Encode: base64url-decode, parse and validate the header,
// split off the salt (iff secret is passphrase-typed), IV, and ciphertext,
// decrypt, decompress, check expiry, and unmarshal into dst.
//
// Expiry applies only when the token carries both a timestamp and a TTL.
// Authentication errors take precedence over expiry: a tampered token is
// reported as ErrAuthenticationFailed even if it would also be expired.
func (m *Manager) Decode(ctx context.Context, token string, secret crypt.Secret, dst any) error {
	raw, err := codec.DecodeBase64URL(token)
	if err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}

	meta, err := header.Unpack(raw)
	if err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}

	body := raw[header.Size(meta):]
	sealed := crypt.Sealed{}

	if secret.IsPassphrase() {
		if len(body) < crypt.SaltSize {
			return fmt.Errorf("%w: missing salt", ErrInvalidFormat)
		}
		sealed.Salt, body = body[:crypt.SaltSize], body[crypt.SaltSize:]
	}

	if len(body) < crypt.IVSize+crypt.TagSize {
		return fmt.Errorf("%w: body %d bytes, need at least %d", ErrInvalidFormat, len(body), crypt.IVSize+crypt.TagSize)
	}
	sealed.IV, sealed.Ciphertext = body[:crypt.IVSize], body[crypt.IVSize:]

	compressed, err := crypt.Decrypt(sealed, secret)
	if err != nil {
		return err
	}

	plain, err := m.provider.For(meta.Compression).Decompress(ctx, compressed)
	if err != nil {
		return err
	}

	// Checked before unmarshal so an expired token never populates dst.
	if meta.Expired(m.now()) {
		return ErrTokenExpired
	}

	if err := json.Unmarshal(plain, dst); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	return nil
}

// ExtractMetadata parses the token header without any secret and without
// attempting decryption. It is the read-only view of the metadata embedded
// at encode time.
func (m *Manager) ExtractMetadata(token string) (header.Metadata, error) {
	raw, err := codec.DecodeBase64URL(token)
	if err != nil {
		return header.Metadata{}, errors.Join(ErrInvalidFormat, err)
	}

	meta, err := header.Unpack(raw)
	if err != nil {
		return header.Metadata{}, errors.Join(ErrInvalidFormat, err)
	}

	return meta, nil
}

// Validate performs a structural check only: base64, header, version, and a
// minimum-length test (header + IV + tag). It never decrypts, so a valid
// structure says nothing about authenticity. Note the minimum length cannot
// account for a salt, since salt presence depends on the secret type.
func (m *Manager) Validate(token string) bool {
	raw, err := codec.DecodeBase64URL(token)
	if err != nil {
		return false
	}

	meta, err := header.Unpack(raw)
	if err != nil {
		return false
	}

	return len(raw) >= header.Size(meta)+crypt.IVSize+crypt.TagSize
}
