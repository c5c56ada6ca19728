// Package mocks provides mock implementations of the vault use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockCredentialRepository) Get(ctx context.Context, accountID string) (*vaultDomain.Credentials, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credentials), args.Error(1)
}

// Create mocks the Create method.
func (m *MockCredentialRepository) Create(ctx context.Context, creds *vaultDomain.Credentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

// UpdateEncryptionEnabled mocks the UpdateEncryptionEnabled method.
func (m *MockCredentialRepository) UpdateEncryptionEnabled(ctx context.Context, accountID string, enabled bool) error {
	args := m.Called(ctx, accountID, enabled)
	return args.Error(0)
}

// MockObjectStore is a mock implementation of ObjectStore.
type MockObjectStore struct {
	mock.Mock
}

// Put mocks the Put method.
func (m *MockObjectStore) Put(
	ctx context.Context,
	accountID string,
	file *vaultDomain.EncryptedFile,
	checksum string,
) (string, error) {
	args := m.Called(ctx, accountID, file, checksum)
	return args.String(0), args.Error(1)
}

// Get mocks the Get method.
func (m *MockObjectStore) Get(
	ctx context.Context,
	accountID, objectID string,
) (*vaultDomain.EncryptedFile, string, error) {
	args := m.Called(ctx, accountID, objectID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*vaultDomain.EncryptedFile), args.String(1), args.Error(2)
}

// Delete mocks the Delete method.
func (m *MockObjectStore) Delete(ctx context.Context, accountID, objectID string) error {
	args := m.Called(ctx, accountID, objectID)
	return args.Error(0)
}

// List mocks the List method.
func (m *MockObjectStore) List(
	ctx context.Context,
	accountID string,
	offset, limit int,
) ([]*vaultDomain.StoredFile, error) {
	args := m.Called(ctx, accountID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.StoredFile), args.Error(1)
}

// MockVaultUseCase is a mock implementation of VaultUseCase.
type MockVaultUseCase struct {
	mock.Mock
}

// Unlock mocks the Unlock method.
func (m *MockVaultUseCase) Unlock(ctx context.Context, accountID, password string) (bool, error) {
	args := m.Called(ctx, accountID, password)
	return args.Bool(0), args.Error(1)
}

// Lock mocks the Lock method.
func (m *MockVaultUseCase) Lock(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// Status mocks the Status method.
func (m *MockVaultUseCase) Status(ctx context.Context, accountID string) (*vaultDomain.Status, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Status), args.Error(1)
}

// SetEncryptionEnabled mocks the SetEncryptionEnabled method.
func (m *MockVaultUseCase) SetEncryptionEnabled(ctx context.Context, accountID string, enabled bool) error {
	args := m.Called(ctx, accountID, enabled)
	return args.Error(0)
}

// EncryptFile mocks the EncryptFile method.
func (m *MockVaultUseCase) EncryptFile(
	ctx context.Context,
	accountID string,
	data []byte,
) (*vaultDomain.EncryptedFile, error) {
	args := m.Called(ctx, accountID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.EncryptedFile), args.Error(1)
}

// DecryptFile mocks the DecryptFile method.
func (m *MockVaultUseCase) DecryptFile(
	ctx context.Context,
	accountID string,
	data []byte,
	metadata cryptoDomain.EncryptionMetadata,
) ([]byte, error) {
	args := m.Called(ctx, accountID, data, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// EncryptFiles mocks the EncryptFiles method.
func (m *MockVaultUseCase) EncryptFiles(
	ctx context.Context,
	accountID string,
	payloads [][]byte,
) ([]*vaultDomain.EncryptedFile, error) {
	args := m.Called(ctx, accountID, payloads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.EncryptedFile), args.Error(1)
}

// LockAll mocks the LockAll method.
func (m *MockVaultUseCase) LockAll() {
	m.Called()
}

// MockFileUseCase is a mock implementation of FileUseCase.
type MockFileUseCase struct {
	mock.Mock
}

// Store mocks the Store method.
func (m *MockFileUseCase) Store(
	ctx context.Context,
	accountID string,
	plaintext []byte,
) (*vaultDomain.StoredFile, error) {
	args := m.Called(ctx, accountID, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.StoredFile), args.Error(1)
}

// Load mocks the Load method.
func (m *MockFileUseCase) Load(ctx context.Context, accountID, objectID string) ([]byte, error) {
	args := m.Called(ctx, accountID, objectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockFileUseCase) Delete(ctx context.Context, accountID, objectID string) error {
	args := m.Called(ctx, accountID, objectID)
	return args.Error(0)
}

// List mocks the List method.
func (m *MockFileUseCase) List(
	ctx context.Context,
	accountID string,
	offset, limit int,
) ([]*vaultDomain.StoredFile, error) {
	args := m.Called(ctx, accountID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.StoredFile), args.Error(1)
}
