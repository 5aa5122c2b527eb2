package crypt

import "errors"

// Error variables define specific failure scenarios for encryption and
// decryption. Authentication failures are deliberately generic so callers
// cannot build an oracle from the error text.
var (
	// ErrEmptySecret indicates an empty passphrase was supplied.
	ErrEmptySecret = errors.New("passphrase must not be empty")

	// ErrInvalidKeyLength indicates a raw key that is not exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("raw key must be exactly 32 bytes")

	// ErrSaltRequired indicates a passphrase-typed decrypt without the salt
	// produced at encryption time.
	ErrSaltRequired = errors.New("salt required for passphrase-derived key")

	// ErrInvalidSalt indicates a salt that is not exactly 16 bytes.
	ErrInvalidSalt = errors.New("salt must be exactly 16 bytes")

	// ErrInvalidIV indicates an IV that is not exactly 12 bytes.
	ErrInvalidIV = errors.New("iv must be exactly 12 bytes")

	// ErrAuthenticationFailed indicates the payload could not be opened:
	// wrong key, tampered ciphertext, tampered tag, or tampered IV. The
	// cause is not disclosed by design.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
