package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// verificationDomain labels the salt domain of the verification hash. The encryption
// key is derived from the raw salt, the verification hash from SHA-256(label || salt),
// so the two derivations never run PBKDF2 over the same input and a leaked
// verification hash is not a stepping stone to the file key.
const verificationDomain = "filevault/verify/v1"

// PBKDF2KeyDeriver implements KeyDeriver with PBKDF2-HMAC-SHA-256.
type PBKDF2KeyDeriver struct {
	iterations             int
	verificationIterations int
}

// NewPBKDF2KeyDeriver creates a key deriver. iterations is the encryption key cost and
// must be at least cryptoDomain.MinKDFIterations; zero selects the default.
func NewPBKDF2KeyDeriver(iterations int) (*PBKDF2KeyDeriver, error) {
	if iterations == 0 {
		iterations = cryptoDomain.DefaultKDFIterations
	}
	if iterations < cryptoDomain.MinKDFIterations {
		return nil, fmt.Errorf("%w: %d < %d", cryptoDomain.ErrInsufficientIterations, iterations, cryptoDomain.MinKDFIterations)
	}
	return &PBKDF2KeyDeriver{
		iterations:             iterations,
		verificationIterations: cryptoDomain.DefaultVerificationIterations,
	}, nil
}

// Iterations returns the configured encryption key cost.
func (d *PBKDF2KeyDeriver) Iterations() int {
	return d.iterations
}

// DeriveKey derives a 256-bit encryption key with the configured cost.
func (d *PBKDF2KeyDeriver) DeriveKey(password string, salt []byte) ([]byte, []byte, int, error) {
	key, usedSalt, err := d.DeriveKeyWithIterations(password, salt, d.iterations)
	if err != nil {
		return nil, nil, 0, err
	}
	return key, usedSalt, d.iterations, nil
}

// DeriveKeyWithIterations derives a 256-bit encryption key with an explicit cost.
// Identical (password, salt, iterations) always produce the identical key.
func (d *PBKDF2KeyDeriver) DeriveKeyWithIterations(password string, salt []byte, iterations int) ([]byte, []byte, error) {
	if password == "" {
		return nil, nil, cryptoDomain.ErrEmptyPassword
	}
	if iterations < cryptoDomain.MinKDFIterations {
		return nil, nil, fmt.Errorf("%w: %d", cryptoDomain.ErrInsufficientIterations, iterations)
	}

	salt, err := saltOrNew(salt)
	if err != nil {
		return nil, nil, err
	}

	pw := []byte(password)
	defer cryptoDomain.Zero(pw)

	key := pbkdf2.Key(pw, salt, iterations, cryptoDomain.KeySize, sha256.New)
	return key, salt, nil
}

// HashForVerification derives the password verification hash in its own salt domain.
func (d *PBKDF2KeyDeriver) HashForVerification(password string, salt []byte) ([]byte, []byte, error) {
	if password == "" {
		return nil, nil, cryptoDomain.ErrEmptyPassword
	}

	salt, err := saltOrNew(salt)
	if err != nil {
		return nil, nil, err
	}

	pw := []byte(password)
	defer cryptoDomain.Zero(pw)

	hash := pbkdf2.Key(pw, verificationSalt(salt), d.verificationIterations, cryptoDomain.KeySize, sha256.New)
	return hash, salt, nil
}

// Verify recomputes the verification hash and compares it in constant time.
// Malformed stored values simply fail verification.
func (d *PBKDF2KeyDeriver) Verify(password, storedHash, storedSalt string) bool {
	expected, err := hex.DecodeString(storedHash)
	if err != nil || len(expected) != cryptoDomain.KeySize {
		return false
	}
	salt, err := hex.DecodeString(storedSalt)
	if err != nil || len(salt) != cryptoDomain.SaltSize {
		return false
	}

	actual, _, err := d.HashForVerification(password, salt)
	if err != nil {
		return false
	}
	defer cryptoDomain.Zero(actual)

	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// GenerateSalt returns a new random vault salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

func saltOrNew(salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return GenerateSalt()
	}
	if len(salt) != cryptoDomain.SaltSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", cryptoDomain.ErrInvalidSalt, cryptoDomain.SaltSize, len(salt))
	}
	return salt, nil
}

func verificationSalt(salt []byte) []byte {
	h := sha256.New()
	h.Write([]byte(verificationDomain))
	h.Write(salt)
	return h.Sum(nil)
}
