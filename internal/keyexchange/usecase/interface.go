// Package usecase implements stateless RSA-OAEP key exchange operations. Key pairs are
// returned to the caller and never stored or tied to a vault session.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// KeyExchangeUseCase generates key pairs and encrypts short secrets for a key holder.
type KeyExchangeUseCase interface {
	GenerateKeyPair(ctx context.Context) (cryptoDomain.KeyPair, error)
	// Encrypt rejects plaintext over 190 bytes with ErrPlaintextTooLarge.
	Encrypt(ctx context.Context, plaintext []byte, publicKey string) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte, privateKey string) ([]byte, error)
	// Checksum returns the lowercase hex SHA-256 of data.
	Checksum(ctx context.Context, data []byte) string
}
