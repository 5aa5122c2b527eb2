package token

import (
	"errors"
	"fmt"
	"strings"
)

// Error variables define specific failure scenarios in the token pipeline.
// Lower-level sentinels (header truncation, authentication failure,
// corrupt compressed data) pass through wrapped and remain matchable with
// errors.Is.
var (
	// ErrInvalidFormat indicates a structurally broken token: invalid
	// base64, truncated header, missing salt, or a body too short to hold
	// an IV and authentication tag.
	ErrInvalidFormat = errors.New("invalid token format")

	// ErrTokenExpired indicates the token carries a timestamp and TTL and
	// the current time is at or past timestamp+TTL.
	ErrTokenExpired = errors.New("token expired")

	// ErrNoSecrets indicates a key-fallback decode with an empty candidate
	// list.
	ErrNoSecrets = errors.New("no candidate secrets provided")
)

// FallbackError aggregates the failures of a key-fallback decode that
// exhausted every candidate secret. Per-key messages are the pipeline's
// generic errors; they never reveal which internal step failed.
type FallbackError struct {
	Attempts int
	Failures []error
}

// Error implements the error interface.
func (e *FallbackError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "token could not be decoded with any of %d candidate keys", e.Attempts)
	for i, err := range e.Failures {
		fmt.Fprintf(&b, "; key %d: %v", i, err)
	}
	return b.String()
}

// Unwrap exposes the per-key failures for errors.Is and errors.As.
func (e *FallbackError) Unwrap() []error {
	return e.Failures
}
