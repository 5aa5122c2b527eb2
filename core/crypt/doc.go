// Package crypt provides the authenticated encryption engine of the token
// pipeline: AES-256-GCM with a fresh 96-bit IV per call, and salted PBKDF2
// key derivation for passphrase-typed secrets.
//
// # Features
//
//   - AES-256-GCM authenticated encryption (16-byte tag appended)
//   - Fresh CSPRNG IV on every encryption; reuse is impossible by
//     construction, not by bookkeeping
//   - PBKDF2-SHA256 key derivation (100,000 rounds, 16-byte random salt)
//     for passphrase secrets
//   - Raw 32-byte keys used directly, no derivation
//   - Derived key material zeroed after each operation
//   - Generic authentication errors that never distinguish a wrong key
//     from tampered data
//
// # Usage
//
//	// Passphrase secret: salt is generated and must travel with the
//	// ciphertext.
//	sealed, err := crypt.Encrypt(plaintext, crypt.NewPassphrase("correct horse"))
//	if err != nil {
//		return err
//	}
//
//	plaintext, err = crypt.Decrypt(sealed, crypt.NewPassphrase("correct horse"))
//	if errors.Is(err, crypt.ErrAuthenticationFailed) {
//		// Wrong passphrase or tampered payload, indistinguishable on purpose.
//	}
//
//	// Raw key secret: no salt involved.
//	key, _ := crypt.GenerateKey()
//	sealed, err = crypt.Encrypt(plaintext, crypt.NewKey(key))
//
// # Security Considerations
//
//   - Secrets are supplied per call and never retained by this package
//   - Keep raw keys out of logs and error messages; errors here carry no
//     key or plaintext material
//   - The 100,000-round PBKDF2 cost is fixed; rotating to a stronger
//     parameter set requires a new wire version
package crypt
