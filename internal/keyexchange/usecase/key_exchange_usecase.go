package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

type keyExchangeUseCase struct {
	keyExchange cryptoService.KeyExchange
}

// NewKeyExchangeUseCase creates a KeyExchangeUseCase backed by keyExchange.
func NewKeyExchangeUseCase(keyExchange cryptoService.KeyExchange) KeyExchangeUseCase {
	return &keyExchangeUseCase{keyExchange: keyExchange}
}

func (k *keyExchangeUseCase) GenerateKeyPair(ctx context.Context) (cryptoDomain.KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return cryptoDomain.KeyPair{}, err
	}
	return k.keyExchange.GenerateKeyPair()
}

func (k *keyExchangeUseCase) Encrypt(ctx context.Context, plaintext []byte, publicKey string) ([]byte, error) {
	return k.keyExchange.EncryptWithPublicKey(plaintext, publicKey)
}

func (k *keyExchangeUseCase) Decrypt(ctx context.Context, ciphertext []byte, privateKey string) ([]byte, error) {
	return k.keyExchange.DecryptWithPrivateKey(ciphertext, privateKey)
}

func (k *keyExchangeUseCase) Checksum(_ context.Context, data []byte) string {
	return cryptoService.Checksum(data)
}
