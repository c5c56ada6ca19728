// Package mocks provides mock implementations of the key exchange use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// MockKeyExchangeUseCase is a mock implementation of KeyExchangeUseCase.
type MockKeyExchangeUseCase struct {
	mock.Mock
}

// GenerateKeyPair mocks the GenerateKeyPair method.
func (m *MockKeyExchangeUseCase) GenerateKeyPair(ctx context.Context) (cryptoDomain.KeyPair, error) {
	args := m.Called(ctx)
	return args.Get(0).(cryptoDomain.KeyPair), args.Error(1)
}

// Encrypt mocks the Encrypt method.
func (m *MockKeyExchangeUseCase) Encrypt(ctx context.Context, plaintext []byte, publicKey string) ([]byte, error) {
	args := m.Called(ctx, plaintext, publicKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockKeyExchangeUseCase) Decrypt(ctx context.Context, ciphertext []byte, privateKey string) ([]byte, error) {
	args := m.Called(ctx, ciphertext, privateKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Checksum mocks the Checksum method.
func (m *MockKeyExchangeUseCase) Checksum(ctx context.Context, data []byte) string {
	args := m.Called(ctx, data)
	return args.String(0)
}
