// Package codec provides the byte and text primitives shared by the token
// pipeline: cryptographically secure random generation, URL-safe base64 and
// hex conversions, single-allocation concatenation, and constant-time
// comparison.
//
// # Features
//
//   - CSPRNG byte and string generation via crypto/rand
//   - URL-safe base64 without padding (padding tolerated on decode)
//   - Hex encode/decode
//   - Constant-time equality for secret material
//
// # Usage
//
//	iv, err := codec.RandomBytes(12)
//	if err != nil {
//		return err
//	}
//
//	token := codec.EncodeBase64URL(codec.Concat(header, salt, iv, ciphertext))
//
//	raw, err := codec.DecodeBase64URL(token)
//	if errors.Is(err, codec.ErrInvalidBase64) {
//		// Token string was corrupted in transit.
//	}
package codec
