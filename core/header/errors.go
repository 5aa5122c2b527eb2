package header

import "errors"

// Error variables define specific failure scenarios for packing and parsing
// the binary token header.
var (
	// ErrTruncated indicates the input ends before a mandatory or flagged
	// field is complete.
	ErrTruncated = errors.New("truncated header")

	// ErrUnsupportedVersion indicates an unrecognized wire format version.
	ErrUnsupportedVersion = errors.New("unsupported token version")

	// ErrUnsupportedAlgorithm indicates an unknown encryption algorithm id.
	ErrUnsupportedAlgorithm = errors.New("unsupported encryption algorithm")

	// ErrUnsupportedCompression indicates an unknown compression algorithm id.
	ErrUnsupportedCompression = errors.New("unsupported compression algorithm")

	// ErrUnknownFlags indicates flag bits this version does not define.
	ErrUnknownFlags = errors.New("unknown header flags")

	// ErrInvalidTTL indicates a TTL that serializes to a zero field: a
	// flagged zero value on parse, or a sub-second duration on pack.
	ErrInvalidTTL = errors.New("invalid zero ttl field")
)
