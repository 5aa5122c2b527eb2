package codec

import "errors"

// Error variables define specific failure scenarios for byte and text
// conversions, allowing callers to distinguish malformed input from
// environmental failures.
var (
	// ErrInvalidBase64 indicates the input is not valid URL-safe base64.
	ErrInvalidBase64 = errors.New("invalid base64url input")

	// ErrInvalidHex indicates the input is not valid hexadecimal.
	ErrInvalidHex = errors.New("invalid hex input")

	// ErrInvalidLength indicates a non-positive byte count was requested.
	ErrInvalidLength = errors.New("length must be positive")
)
