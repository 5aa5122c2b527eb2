package compress

import "context"

// Algorithm identifies a compression algorithm on the wire.
// The values are part of the token format and must not be renumbered.
type Algorithm byte

const (
	// None disables compression; data passes through unchanged.
	None Algorithm = 0x00
	// Brotli is the high-ratio algorithm, preferred when available.
	Brotli Algorithm = 0x01
	// Deflate is the portable algorithm and the required fallback.
	// It is always available on every build.
	Deflate Algorithm = 0x02
	// Zlib is DEFLATE with a zlib envelope and checksum.
	Zlib Algorithm = 0x03
)

// Valid reports whether the algorithm id is known.
func (a Algorithm) Valid() bool {
	switch a {
	case None, Brotli, Deflate, Zlib:
		return true
	}
	return false
}

// String returns the algorithm name for error messages and configuration.
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Brotli:
		return "brotli"
	case Deflate:
		return "deflate"
	case Zlib:
		return "zlib"
	}
	return "unknown"
}

// ParseAlgorithm maps a configuration name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "none":
		return None, nil
	case "brotli":
		return Brotli, nil
	case "deflate":
		return Deflate, nil
	case "zlib":
		return Zlib, nil
	}
	return 0, ErrUnsupportedAlgorithm
}

// Compressor compresses and decompresses byte slices. Implementations are
// stateless and safe for concurrent use. The context is checked before work
// starts so batch callers can cancel fan-outs cheaply.
type Compressor interface {
	Compress(ctx context.Context, data []byte) ([]byte, error)
	Decompress(ctx context.Context, data []byte) ([]byte, error)
}
