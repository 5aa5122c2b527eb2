package compress

import "errors"

// Error variables define specific failure scenarios for compression
// operations.
var (
	// ErrUnsupportedAlgorithm indicates an unknown compression algorithm id.
	ErrUnsupportedAlgorithm = errors.New("unsupported compression algorithm")

	// ErrCorruptData indicates the input is not a valid stream for the
	// stated algorithm (wrong magic bytes, truncated stream, bad checksum).
	ErrCorruptData = errors.New("corrupt compressed data")
)
