package codec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// RandomBytes returns n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidLength
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}

	return b, nil
}

// RandomString returns a URL-safe random string built from n random bytes.
// The result is base64url-encoded without padding, so its length is larger
// than n.
func RandomString(n int) (string, error) {
	b, err := RandomBytes(n)
	if err != nil {
		return "", err
	}
	return EncodeBase64URL(b), nil
}

// EncodeBase64URL encodes data as URL-safe base64 without padding.
func EncodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeBase64URL decodes URL-safe base64. Padded input is tolerated since
// some transports re-add padding in transit.
func DecodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")

	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}

	return data, nil
}

// EncodeHex encodes data as lowercase hexadecimal.
func EncodeHex(data []byte) string {
	return hex.EncodeToString(data)
}

// DecodeHex decodes a hexadecimal string.
func DecodeHex(s string) ([]byte, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return data, nil
}

// Concat joins byte slices into a single freshly allocated slice.
// Nil slices are skipped, which lets callers pass optional segments
// (e.g. a salt that is only present for passphrase-derived tokens).
func Concat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}

	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// Equal reports whether a and b are equal in constant time.
// Use this instead of bytes.Equal when comparing secret material.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
