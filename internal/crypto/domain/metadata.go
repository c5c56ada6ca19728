package domain

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/allisson/filevault/internal/errors"
)

// ErrInvalidMetadata indicates an EncryptionMetadata record is incomplete or malformed.
var ErrInvalidMetadata = errors.Wrap(ErrDecryptionFailed, "invalid encryption metadata")

// EncryptionMetadata is the per-file record required to decrypt an encrypted blob.
//
// It is created once at encrypt time and never modified. It must be persisted next to
// the blob it describes; losing it makes the blob undecryptable even with the correct
// password. IV and Salt are hex encoded, which is the persisted wire form.
type EncryptionMetadata struct {
	Algorithm     Algorithm `json:"algorithm"`
	KeyDerivation string    `json:"keyDerivation"`
	IV            string    `json:"iv"`
	Salt          string    `json:"salt"`
	Iterations    int       `json:"iterations"`
}

// IVBytes decodes the hex IV.
func (m EncryptionMetadata) IVBytes() ([]byte, error) {
	iv, err := hex.DecodeString(m.IV)
	if err != nil || len(iv) == 0 {
		return nil, fmt.Errorf("%w: iv is not valid hex", ErrInvalidMetadata)
	}
	return iv, nil
}

// SaltBytes decodes the hex salt.
func (m EncryptionMetadata) SaltBytes() ([]byte, error) {
	salt, err := hex.DecodeString(m.Salt)
	if err != nil || len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d hex-encoded bytes", ErrInvalidMetadata, SaltSize)
	}
	return salt, nil
}

// Validate checks that every field is present and well formed.
func (m EncryptionMetadata) Validate() error {
	if _, err := ParseAlgorithm(string(m.Algorithm)); err != nil {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidMetadata, m.Algorithm)
	}
	if m.KeyDerivation != KeyDerivationPBKDF2SHA256 {
		return fmt.Errorf("%w: unknown key derivation %q", ErrInvalidMetadata, m.KeyDerivation)
	}
	if m.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidMetadata)
	}
	if _, err := m.IVBytes(); err != nil {
		return err
	}
	if _, err := m.SaltBytes(); err != nil {
		return err
	}
	return nil
}

// AssociatedData returns the bytes authenticated alongside the ciphertext by AEAD
// ciphers. Every field except the IV is bound, so editing any of them makes
// authenticated decryption fail.
func (m EncryptionMetadata) AssociatedData() []byte {
	return []byte(string(m.Algorithm) + "|" + m.KeyDerivation + "|" + m.Salt + "|" + strconv.Itoa(m.Iterations))
}
