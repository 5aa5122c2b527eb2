package token_test

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sealbox/core/codec"
	"github.com/dmitrymomot/sealbox/core/compress"
	"github.com/dmitrymomot/sealbox/core/crypt"
	"github.com/dmitrymomot/sealbox/core/header"
	"github.com/dmitrymomot/sealbox/core/token"
)

const testPassphrase = "correct horse battery staple"

func testRawKey(t *testing.T) crypt.Secret {
	t.Helper()
	key, err := crypt.GenerateKey()
	require.NoError(t, err)
	return crypt.NewKey(key)
}

type testPayload struct {
	User   string   `json:"user"`
	Roles  []string `json:"roles"`
	Active bool     `json:"active"`
	Count  int      `json:"count"`
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()

	payload := testPayload{
		User:   "alice",
		Roles:  []string{"admin", "ops"},
		Active: true,
		Count:  42,
	}

	algorithms := []compress.Algorithm{compress.None, compress.Brotli, compress.Deflate, compress.Zlib}

	t.Run("passphrase secret", func(t *testing.T) {
		secret := crypt.NewPassphrase(testPassphrase)
		for _, algo := range algorithms {
			t.Run(algo.String(), func(t *testing.T) {
				tok, err := mgr.Encode(ctx, payload, secret, token.WithCompression(algo))
				require.NoError(t, err)

				var decoded testPayload
				require.NoError(t, mgr.Decode(ctx, tok, secret, &decoded))
				assert.Equal(t, payload, decoded)
			})
		}
	})

	t.Run("raw key secret", func(t *testing.T) {
		secret := testRawKey(t)
		for _, algo := range algorithms {
			t.Run(algo.String(), func(t *testing.T) {
				tok, err := mgr.Encode(ctx, payload, secret, token.WithCompression(algo))
				require.NoError(t, err)

				var decoded testPayload
				require.NoError(t, mgr.Decode(ctx, tok, secret, &decoded))
				assert.Equal(t, payload, decoded)
			})
		}
	})

	t.Run("assorted payload shapes", func(t *testing.T) {
		secret := crypt.NewPassphrase(testPassphrase)
		for name, data := range map[string]any{
			"string": "just text",
			"number": 12345.5,
			"array":  []any{"a", float64(1), true},
			"nested": map[string]any{"outer": map[string]any{"inner": []any{"deep"}}},
			"null":   nil,
		} {
			t.Run(name, func(t *testing.T) {
				tok, err := mgr.Encode(ctx, data, secret)
				require.NoError(t, err)

				var decoded any
				require.NoError(t, mgr.Decode(ctx, tok, secret, &decoded))
				assert.Equal(t, data, decoded)
			})
		}
	})
}

func TestEncode_TokenShape(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()
	secret := crypt.NewPassphrase("pw")

	tok, err := mgr.Encode(ctx, map[string]string{"msg": "hi"}, secret)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), tok)

	raw, err := codec.DecodeBase64URL(tok)
	require.NoError(t, err)
	assert.Greater(t, len(raw), header.FixedLen)

	meta, err := mgr.ExtractMetadata(tok)
	require.NoError(t, err)
	assert.Equal(t, header.Version, meta.Version)
}

func TestEncode_FreshTokenPerCall(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()
	secret := crypt.NewPassphrase("pw")
	payload := map[string]string{"same": "input"}

	a, err := mgr.Encode(ctx, payload, secret)
	require.NoError(t, err)
	b, err := mgr.Encode(ctx, payload, secret)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "identical input must never produce identical tokens")
}

func TestDecode_WrongSecret(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()

	tok, err := mgr.Encode(ctx, "payload", crypt.NewPassphrase("right"))
	require.NoError(t, err)

	var out string
	err = mgr.Decode(ctx, tok, crypt.NewPassphrase("wrong"), &out)
	assert.ErrorIs(t, err, crypt.ErrAuthenticationFailed)

	err = mgr.Decode(ctx, tok, testRawKey(t), &out)
	assert.Error(t, err, "raw-key decode of a passphrase token must fail")
}

func TestDecode_TamperDetection(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()
	secret := crypt.NewPassphrase("pw")

	tok, err := mgr.Encode(ctx, map[string]string{"k": "v"}, secret,
		token.WithCompression(compress.Deflate))
	require.NoError(t, err)

	raw, err := codec.DecodeBase64URL(tok)
	require.NoError(t, err)

	var out map[string]string
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		err := mgr.Decode(ctx, codec.EncodeBase64URL(tampered), secret, &out)
		assert.Error(t, err, "flipping byte %d must not decode silently", i)
	}
}

func TestDecode_Structural(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()
	secret := crypt.NewPassphrase("pw")
	var out any

	t.Run("invalid base64", func(t *testing.T) {
		err := mgr.Decode(ctx, "not!!base64", secret, &out)
		assert.ErrorIs(t, err, token.ErrInvalidFormat)
	})

	t.Run("truncated header", func(t *testing.T) {
		err := mgr.Decode(ctx, codec.EncodeBase64URL([]byte{0x01, 0x01}), secret, &out)
		assert.ErrorIs(t, err, token.ErrInvalidFormat)
		assert.ErrorIs(t, err, header.ErrTruncated)
	})

	t.Run("missing salt for passphrase", func(t *testing.T) {
		hdr, err := header.Pack(header.Metadata{
			Version:     header.Version,
			Algorithm:   crypt.AESGCM256,
			Compression: compress.None,
		})
		require.NoError(t, err)

		short := append(hdr, make([]byte, crypt.SaltSize-1)...)
		err = mgr.Decode(ctx, codec.EncodeBase64URL(short), secret, &out)
		assert.ErrorIs(t, err, token.ErrInvalidFormat)
	})

	t.Run("body shorter than iv plus tag", func(t *testing.T) {
		hdr, err := header.Pack(header.Metadata{
			Version:     header.Version,
			Algorithm:   crypt.AESGCM256,
			Compression: compress.None,
		})
		require.NoError(t, err)

		short := append(hdr, make([]byte, crypt.SaltSize+5)...)
		err = mgr.Decode(ctx, codec.EncodeBase64URL(short), secret, &out)
		assert.ErrorIs(t, err, token.ErrInvalidFormat)
	})
}

func TestVersionRejection_Uniform(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()
	secret := crypt.NewPassphrase("pw")

	tok, err := mgr.Encode(ctx, "data", secret)
	require.NoError(t, err)

	raw, err := codec.DecodeBase64URL(tok)
	require.NoError(t, err)
	raw[0] = 0x7f
	bad := codec.EncodeBase64URL(raw)

	_, err = mgr.ExtractMetadata(bad)
	assert.ErrorIs(t, err, header.ErrUnsupportedVersion)

	assert.False(t, mgr.Validate(bad))

	var out any
	err = mgr.Decode(ctx, bad, secret, &out)
	assert.ErrorIs(t, err, header.ErrUnsupportedVersion)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	secret := crypt.NewPassphrase("pw")
	current := time.Unix(1_700_000_000, 0)
	mgr := token.New(token.WithClock(func() time.Time { return current }))

	tok, err := mgr.Encode(ctx, "ephemeral", secret,
		token.WithTimestamp(true),
		token.WithTTL(time.Second),
	)
	require.NoError(t, err)

	t.Run("valid before expiry", func(t *testing.T) {
		current = time.Unix(1_700_000_000, 500_000_000) // +0.5s

		var out string
		require.NoError(t, mgr.Decode(ctx, tok, secret, &out))
		assert.Equal(t, "ephemeral", out)
	})

	t.Run("expired after ttl", func(t *testing.T) {
		current = time.Unix(1_700_000_002, 0) // +2s

		var out string
		err := mgr.Decode(ctx, tok, secret, &out)
		assert.ErrorIs(t, err, token.ErrTokenExpired)
		assert.Empty(t, out, "expired decode must not populate dst")
	})

	t.Run("sub-second ttl rounds away and still decodes", func(t *testing.T) {
		current = time.Unix(1_700_000_000, 0)
		tok, err := mgr.Encode(ctx, "data", secret,
			token.WithTimestamp(true),
			token.WithTTL(500*time.Millisecond),
		)
		require.NoError(t, err)

		var out string
		require.NoError(t, mgr.Decode(ctx, tok, secret, &out))
		assert.Equal(t, "data", out)

		// The field is omitted on the wire, so the token never expires.
		meta, err := mgr.ExtractMetadata(tok)
		require.NoError(t, err)
		assert.False(t, meta.HasTTL())

		current = time.Unix(1_800_000_000, 0)
		require.NoError(t, mgr.Decode(ctx, tok, secret, &out))
	})

	t.Run("fractional ttl truncates to whole seconds", func(t *testing.T) {
		current = time.Unix(1_700_000_000, 0)
		tok, err := mgr.Encode(ctx, "data", secret,
			token.WithTimestamp(true),
			token.WithTTL(1500*time.Millisecond),
		)
		require.NoError(t, err)

		meta, err := mgr.ExtractMetadata(tok)
		require.NoError(t, err)
		assert.Equal(t, time.Second, meta.TTL)

		current = time.Unix(1_700_000_001, 0) // exactly issuedAt+1s
		var out string
		err = mgr.Decode(ctx, tok, secret, &out)
		assert.ErrorIs(t, err, token.ErrTokenExpired)
	})

	t.Run("ttl without timestamp never expires", func(t *testing.T) {
		current = time.Unix(1_700_000_000, 0)
		eternal, err := mgr.Encode(ctx, "data", secret, token.WithTTL(time.Second))
		require.NoError(t, err)

		current = time.Unix(1_800_000_000, 0)
		var out string
		require.NoError(t, mgr.Decode(ctx, eternal, secret, &out))
	})
}

func TestExtractMetadata(t *testing.T) {
	ctx := context.Background()
	issuedAt := time.Unix(1_700_000_000, 0)
	mgr := token.New(token.WithClock(func() time.Time { return issuedAt }))

	tok, err := mgr.Encode(ctx, "data", crypt.NewPassphrase("pw"),
		token.WithCompression(compress.Zlib),
		token.WithTimestamp(true),
		token.WithTTL(2*time.Minute),
	)
	require.NoError(t, err)

	// No secret needed.
	meta, err := mgr.ExtractMetadata(tok)
	require.NoError(t, err)

	assert.Equal(t, header.Version, meta.Version)
	assert.Equal(t, crypt.AESGCM256, meta.Algorithm)
	assert.Equal(t, compress.Zlib, meta.Compression)
	assert.True(t, issuedAt.Equal(meta.IssuedAt))
	assert.Equal(t, 2*time.Minute, meta.TTL)
	assert.True(t, issuedAt.Add(2*time.Minute).Equal(meta.ExpiresAt()))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()

	t.Run("valid token", func(t *testing.T) {
		tok, err := mgr.Encode(ctx, "data", crypt.NewPassphrase("pw"))
		require.NoError(t, err)
		assert.True(t, mgr.Validate(tok))
	})

	t.Run("garbage input", func(t *testing.T) {
		assert.False(t, mgr.Validate("not a token"))
		assert.False(t, mgr.Validate(""))
	})

	t.Run("valid base64 with random content", func(t *testing.T) {
		assert.False(t, mgr.Validate(codec.EncodeBase64URL([]byte("randomness"))))
	})

	t.Run("structurally short token", func(t *testing.T) {
		hdr, err := header.Pack(header.Metadata{
			Version:     header.Version,
			Algorithm:   crypt.AESGCM256,
			Compression: compress.None,
		})
		require.NoError(t, err)
		assert.False(t, mgr.Validate(codec.EncodeBase64URL(hdr)))
	})
}

func TestEncode_OptionValidation(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()
	secret := crypt.NewPassphrase("pw")

	t.Run("unknown compression id", func(t *testing.T) {
		_, err := mgr.Encode(ctx, "data", secret, token.WithCompression(compress.Algorithm(0x66)))
		assert.ErrorIs(t, err, compress.ErrUnsupportedAlgorithm)
	})

	t.Run("unknown encryption id", func(t *testing.T) {
		_, err := mgr.Encode(ctx, "data", secret, token.WithAlgorithm(crypt.Algorithm(0x66)))
		assert.ErrorIs(t, err, header.ErrUnsupportedAlgorithm)
	})

	t.Run("unserializable payload", func(t *testing.T) {
		_, err := mgr.Encode(ctx, make(chan int), secret)
		assert.ErrorContains(t, err, "marshal payload")
	})

	t.Run("invalid secret", func(t *testing.T) {
		_, err := mgr.Encode(ctx, "data", crypt.NewPassphrase(""))
		assert.ErrorIs(t, err, crypt.ErrEmptySecret)

		_, err = mgr.Encode(ctx, "data", crypt.NewKey([]byte("short")))
		assert.ErrorIs(t, err, crypt.ErrInvalidKeyLength)
	})
}

func TestManager_RestrictedProviderDefaults(t *testing.T) {
	ctx := context.Background()
	mgr := token.New(token.WithProvider(compress.NewRestrictedProvider()))
	secret := crypt.NewPassphrase("pw")

	// Default compression downgrades to the portable algorithm.
	tok, err := mgr.Encode(ctx, strings.Repeat("text ", 200), secret)
	require.NoError(t, err)

	meta, err := mgr.ExtractMetadata(tok)
	require.NoError(t, err)
	assert.Equal(t, compress.Deflate, meta.Compression)

	var out string
	require.NoError(t, mgr.Decode(ctx, tok, secret, &out))
}

func TestManager_SubstitutionRoundTrip(t *testing.T) {
	// A restricted provider substitutes deflate for the requested brotli on
	// both paths, so the round trip stays intact even though the header
	// records the requested id.
	ctx := context.Background()
	mgr := token.New(token.WithProvider(compress.NewRestrictedProvider()))
	secret := crypt.NewPassphrase("pw")

	tok, err := mgr.Encode(ctx, "payload", secret, token.WithCompression(compress.Brotli))
	require.NoError(t, err)

	meta, err := mgr.ExtractMetadata(tok)
	require.NoError(t, err)
	assert.Equal(t, compress.Brotli, meta.Compression, "header records the requested id")

	var out string
	require.NoError(t, mgr.Decode(ctx, tok, secret, &out))
	assert.Equal(t, "payload", out)
}

func TestManager_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	mgr := token.New()
	secret := testRawKey(t)

	done := make(chan error, 32)
	for i := 0; i < 32; i++ {
		go func(n int) {
			tok, err := mgr.Encode(ctx, n, secret)
			if err != nil {
				done <- err
				return
			}
			var out int
			if err := mgr.Decode(ctx, tok, secret, &out); err != nil {
				done <- err
				return
			}
			if out != n {
				done <- assert.AnError
				return
			}
			done <- nil
		}(i)
	}

	for i := 0; i < 32; i++ {
		require.NoError(t, <-done)
	}
}
