package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrymomot/sealbox/core/codec"
)

const (
	// KeySize is the raw key length in bytes (AES-256).
	KeySize = 32
	// SaltSize is the key-derivation salt length in bytes.
	SaltSize = 16
	// IVSize is the AES-GCM nonce length in bytes.
	IVSize = 12
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16

	// kdfIterations is the PBKDF2 round count for passphrase-derived keys.
	kdfIterations = 100_000
)

// Algorithm identifies an authenticated encryption algorithm on the wire.
type Algorithm byte

// AESGCM256 is AES-256 in Galois/Counter Mode, currently the only
// supported algorithm.
const AESGCM256 Algorithm = 0x01

// Valid reports whether the algorithm id is known.
func (a Algorithm) Valid() bool {
	return a == AESGCM256
}

// String returns the algorithm name for error messages.
func (a Algorithm) String() string {
	if a == AESGCM256 {
		return "aes-256-gcm"
	}
	return "unknown"
}

// Secret is caller-supplied key material: either a passphrase that is run
// through salted key derivation, or a raw 32-byte key used directly.
// Secrets are values passed per call; the package never stores them.
type Secret struct {
	passphrase string
	key        []byte
	isPass     bool
}

// NewPassphrase wraps a textual secret. A fresh 16-byte salt is generated on
// every Encrypt and a 32-byte key is derived with PBKDF2-SHA256 over 100,000
// rounds. Validation happens at use time; an empty passphrase fails with
// ErrEmptySecret.
func NewPassphrase(passphrase string) Secret {
	return Secret{passphrase: passphrase, isPass: true}
}

// NewKey wraps a raw 32-byte key used without derivation. Validation happens
// at use time; any other length fails with ErrInvalidKeyLength.
func NewKey(key []byte) Secret {
	return Secret{key: key}
}

// IsPassphrase reports whether the secret requires key derivation and a
// stored salt.
func (s Secret) IsPassphrase() bool {
	return s.isPass
}

// material returns the encryption key for this secret alongside the salt
// that must travel with the ciphertext (nil for raw keys). When salt is nil
// and the secret is a passphrase, a fresh salt is generated. The returned
// key is a private copy; callers must zero it after use.
func (s Secret) material(salt []byte) (key, usedSalt []byte, err error) {
	if s.isPass {
		if s.passphrase == "" {
			return nil, nil, ErrEmptySecret
		}
		if salt == nil {
			salt, err = codec.RandomBytes(SaltSize)
			if err != nil {
				return nil, nil, fmt.Errorf("generate salt: %w", err)
			}
		} else if len(salt) != SaltSize {
			return nil, nil, ErrInvalidSalt
		}
		key = pbkdf2.Key([]byte(s.passphrase), salt, kdfIterations, KeySize, sha256.New)
		return key, salt, nil
	}

	if len(s.key) != KeySize {
		return nil, nil, ErrInvalidKeyLength
	}

	key = make([]byte, KeySize)
	copy(key, s.key)
	return key, nil, nil
}

// Sealed is the output of one Encrypt call: a fresh random IV, the
// ciphertext with the authentication tag appended, and the key-derivation
// salt when the secret was passphrase-typed (nil otherwise). Sealed values
// live only for the duration of one encode or decode call.
type Sealed struct {
	IV         []byte
	Ciphertext []byte
	Salt       []byte
}

// GenerateKey returns a fresh random 32-byte key suitable for NewKey.
func GenerateKey() ([]byte, error) {
	return codec.RandomBytes(KeySize)
}

// Encrypt seals plaintext with AES-256-GCM under the given secret.
// Every call draws a fresh 12-byte IV (and, for passphrases, a fresh
// 16-byte salt) from the CSPRNG, so encrypting identical input twice never
// yields identical output.
func Encrypt(plaintext []byte, secret Secret) (Sealed, error) {
	key, salt, err := secret.material(nil)
	if err != nil {
		return Sealed{}, err
	}
	defer zeroBytes(key)

	iv, err := codec.RandomBytes(IVSize)
	if err != nil {
		return Sealed{}, fmt.Errorf("generate iv: %w", err)
	}

	aead, err := newAEAD(key)
	if err != nil {
		return Sealed{}, err
	}

	return Sealed{
		IV:         iv,
		Ciphertext: aead.Seal(nil, iv, plaintext, nil),
		Salt:       salt,
	}, nil
}

// Decrypt opens a sealed payload under the given secret. Passphrase-typed
// secrets require the salt that was produced at encryption time
// (ErrSaltRequired otherwise). Any tampering of the IV, ciphertext, tag, or
// a wrong key collapses into the generic ErrAuthenticationFailed so failure
// modes cannot be distinguished by an attacker.
func Decrypt(sealed Sealed, secret Secret) ([]byte, error) {
	if secret.IsPassphrase() && sealed.Salt == nil {
		return nil, ErrSaltRequired
	}

	if len(sealed.IV) != IVSize {
		return nil, ErrInvalidIV
	}
	if len(sealed.Ciphertext) < TagSize {
		return nil, ErrAuthenticationFailed
	}

	key, _, err := secret.material(sealed.Salt)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, sealed.IV, sealed.Ciphertext, nil)
	if err != nil {
		// Deliberately generic: do not reveal whether the key, the tag,
		// or the ciphertext was at fault.
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return aead, nil
}

// zeroBytes overwrites derived key material before it is released.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
