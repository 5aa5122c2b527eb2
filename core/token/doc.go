// Package token implements the token codec pipeline: arbitrary
// JSON-representable data is serialized, compressed, encrypted with
// AES-256-GCM, prefixed with a self-describing binary header, and encoded
// as a single opaque URL-safe string suitable for cookies, URL parameters,
// and client-side storage. The package also provides the key-rotation
// protocol used during key-transition windows.
//
// # Features
//
//   - Compress-then-encrypt pipeline with a fixed, non-reorderable stage
//     order
//   - Passphrase secrets (salted PBKDF2 derivation) and raw 32-byte keys
//   - Optional embedded timestamp and TTL with decode-time expiry
//     enforcement
//   - Metadata extraction and structural validation without any secret
//   - Key rotation: single, batch (concurrent, all-or-nothing), ordered
//     multi-key fallback decode, and a dry-run validator
//   - Environment-based configuration
//   - No shared mutable state; safe for unbounded concurrent use
//
// # Basic Usage
//
//	mgr := token.New()
//	secret := crypt.NewPassphrase("correct horse battery staple")
//
//	tok, err := mgr.Encode(ctx, map[string]string{"user": "alice"}, secret,
//		token.WithTimestamp(true),
//		token.WithTTL(15*time.Minute),
//	)
//	if err != nil {
//		return err
//	}
//
//	var payload map[string]string
//	err = mgr.Decode(ctx, tok, secret, &payload)
//	switch {
//	case errors.Is(err, token.ErrTokenExpired):
//		// Past timestamp+TTL.
//	case errors.Is(err, crypt.ErrAuthenticationFailed):
//		// Wrong secret or tampered token, indistinguishable on purpose.
//	case errors.Is(err, token.ErrInvalidFormat):
//		// Structurally broken token.
//	}
//
// # Inspecting Tokens Without a Secret
//
//	meta, err := mgr.ExtractMetadata(tok)
//	if err == nil {
//		fmt.Println(meta.Version, meta.Compression, meta.ExpiresAt())
//	}
//
//	if !mgr.Validate(tok) {
//		// Not even structurally a token; skip the decode attempt.
//	}
//
// # Key Rotation
//
// Re-encode existing tokens under a new secret, or accept both keys during
// a transition window:
//
//	rotated, err := mgr.RotateKey(ctx, tok, oldSecret, newSecret)
//
//	// Batch variant fans out concurrently and is all-or-nothing.
//	rotatedAll, err := mgr.RotateKeys(ctx, tokens, oldSecret, newSecret)
//
//	// Newest key first; index tells which one decoded the token.
//	idx, err := mgr.DecodeWithFallback(ctx, tok,
//		[]crypt.Secret{newSecret, oldSecret}, &payload)
//
//	// Dry run without producing a token.
//	if mgr.ValidateRotation(ctx, tok, oldSecret, newSecret) {
//		// Safe to rotate.
//	}
//
// # Configuration
//
//	cfg, err := token.LoadConfig() // TOKEN_COMPRESSION, TOKEN_TTL, ...
//	if err != nil {
//		return err
//	}
//	mgr, err := token.NewFromConfig(cfg)
//
// # Security Considerations
//
//   - Secrets are supplied per call; the manager never stores key material
//   - A fresh IV and salt per encode make token strings non-deterministic;
//     never compare tokens for equality to deduplicate payloads
//   - Expiry uses the wall clock at decode time only; it is not a
//     scheduled deadline
//   - Error messages carry structural facts only, never secrets or
//     plaintext fragments
package token
