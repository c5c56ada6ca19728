// Package service provides the cryptographic primitives behind the vault: PBKDF2 key
// derivation and verification hashing, AES-256 file ciphers (CBC and GCM), SHA-256
// checksums, and RSA-OAEP key exchange for sharing short secrets.
package service

import (
	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// Cipher encrypts and decrypts file payloads under a single 256-bit key.
type Cipher interface {
	// Algorithm reports which algorithm this cipher implements.
	Algorithm() cryptoDomain.Algorithm

	// Encrypt encrypts plaintext under a freshly generated IV and returns both.
	// AEAD implementations authenticate aad; CBC ignores it.
	Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error)

	// Decrypt reverses Encrypt. Any failure is reported as ErrDecryptionFailed.
	Decrypt(ciphertext, iv, aad []byte) ([]byte, error)
}

// CipherManager creates Cipher instances for a key and algorithm.
type CipherManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (Cipher, error)
}

// KeyDeriver turns passwords into encryption keys and verification hashes.
type KeyDeriver interface {
	// Iterations returns the cost used by DeriveKey for new vaults.
	Iterations() int

	// DeriveKey derives a 256-bit key. A nil or empty salt generates a new random
	// 32-byte salt; the salt actually used is returned together with the iteration count.
	DeriveKey(password string, salt []byte) (key, usedSalt []byte, iterations int, err error)

	// DeriveKeyWithIterations is DeriveKey with an explicit cost, used for vaults whose
	// stored iteration count differs from the configured one.
	DeriveKeyWithIterations(password string, salt []byte, iterations int) (key, usedSalt []byte, err error)

	// HashForVerification derives the hash used to check unlock attempts.
	HashForVerification(password string, salt []byte) (hash, usedSalt []byte, err error)

	// Verify reports whether password matches the hex-encoded hash and salt.
	Verify(password, storedHash, storedSalt string) bool
}

// KeyExchange performs RSA-OAEP public-key operations on short secrets.
type KeyExchange interface {
	GenerateKeyPair() (cryptoDomain.KeyPair, error)
	EncryptWithPublicKey(plaintext []byte, publicKey string) ([]byte, error)
	DecryptWithPrivateKey(ciphertext []byte, privateKey string) ([]byte, error)
}
