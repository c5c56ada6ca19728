package domain

import (
	"github.com/allisson/filevault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the
// HTTP layer can map them to status codes without knowing about cryptography.
var (
	// ErrUnsupportedAlgorithm indicates the requested cipher is not supported.
	//
	// Supported algorithms: AESCBC (AES-256-CBC), AESGCM (AES-256-GCM).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a symmetric key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSalt indicates a salt could not be decoded or has the wrong length.
	ErrInvalidSalt = errors.Wrap(errors.ErrInvalidInput, "invalid salt")

	// ErrEmptyPassword indicates key derivation was attempted with an empty password.
	ErrEmptyPassword = errors.Wrap(errors.ErrInvalidInput, "password cannot be empty")

	// ErrInsufficientIterations indicates a KDF cost below MinKDFIterations.
	ErrInsufficientIterations = errors.Wrap(errors.ErrInvalidInput, "kdf iteration count too low")

	// ErrDecryptionFailed indicates ciphertext could not be decrypted.
	//
	// Causes include a wrong key, a wrong IV, corrupted ciphertext, or a failed
	// authentication tag. The specific cause is not disclosed. Retrying with the
	// same inputs will not succeed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyExchange indicates malformed asymmetric key material or a
	// ciphertext that does not belong to the given private key.
	ErrKeyExchange = errors.Wrap(errors.ErrInvalidInput, "key exchange failed")

	// ErrPlaintextTooLarge indicates a public-key encryption input exceeds the
	// RSA-OAEP limit (190 bytes for a 2048-bit modulus with SHA-256). Only short
	// secrets such as symmetric keys may be exchanged this way.
	ErrPlaintextTooLarge = errors.Wrap(ErrKeyExchange, "plaintext exceeds RSA-OAEP limit")
)
