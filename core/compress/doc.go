// Package compress provides the pluggable compression layer of the token
// pipeline: four wire-stable algorithms behind one Compressor interface,
// with capability probing and a fixed fallback rule for constrained builds.
//
// # Features
//
//   - Four wire algorithms: none, brotli, deflate (portable), zlib
//   - Capability Provider injected once at construction time
//   - Deterministic substitution: unavailable algorithm resolves to deflate
//     on both the compress and decompress paths
//   - Stateless, concurrency-safe compressor values
//
// # Basic Usage
//
//	provider := compress.NewProvider()
//
//	// Pick the best algorithm this build offers (brotli > zlib > deflate).
//	algo := compress.DefaultAlgorithm(provider)
//
//	packed, err := provider.For(algo).Compress(ctx, data)
//	if err != nil {
//		return err
//	}
//
//	restored, err := provider.For(algo).Decompress(ctx, packed)
//	if errors.Is(err, compress.ErrCorruptData) {
//		// Input is not a valid stream for this algorithm.
//	}
//
// # Substitution Policy
//
// The token header records the *requested* algorithm id, not the one that
// actually ran. Substitution is therefore a fixed, versioned rule rather
// than a negotiation: any unavailable algorithm resolves to Deflate, always,
// on both paths. Two processes agree on the bytes as long as they use equal
// providers. Producing tokens with a restricted provider and decoding them
// where the restricted algorithm IS available (or vice versa) will fail
// decompression. Restrict providers consistently across the fleet, or
// encode with an algorithm every consumer offers.
//
// # Restricted Builds
//
//	// Only the always-available algorithms; brotli and zlib requests
//	// silently run deflate.
//	provider := compress.NewRestrictedProvider()
//	provider.Available(compress.Brotli) // false
package compress
