// Package usecase implements the vault session state machine and the operations built
// on it. A Session owns one account's derived key; the Manager multiplexes sessions by
// account and is the entry point for the HTTP and CLI layers.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// CredentialRepository persists per-account salt and verification hash.
type CredentialRepository interface {
	// Get returns ErrCredentialsNotFound when the account was never set up.
	Get(ctx context.Context, accountID string) (*vaultDomain.Credentials, error)
	Create(ctx context.Context, creds *vaultDomain.Credentials) error
	UpdateEncryptionEnabled(ctx context.Context, accountID string, enabled bool) error
}

// ObjectStore persists encrypted blobs together with their metadata.
type ObjectStore interface {
	Put(ctx context.Context, accountID string, file *vaultDomain.EncryptedFile, checksum string) (string, error)
	Get(ctx context.Context, accountID, objectID string) (*vaultDomain.EncryptedFile, string, error)
	Delete(ctx context.Context, accountID, objectID string) error
	List(ctx context.Context, accountID string, offset, limit int) ([]*vaultDomain.StoredFile, error)
}

// VaultUseCase exposes the vault operations for every account.
type VaultUseCase interface {
	// Unlock returns false with a nil error when the password is wrong.
	Unlock(ctx context.Context, accountID, password string) (bool, error)
	Lock(ctx context.Context, accountID string) error
	Status(ctx context.Context, accountID string) (*vaultDomain.Status, error)
	SetEncryptionEnabled(ctx context.Context, accountID string, enabled bool) error
	EncryptFile(ctx context.Context, accountID string, data []byte) (*vaultDomain.EncryptedFile, error)
	// DecryptFile returns plaintext the caller should zero after use.
	DecryptFile(
		ctx context.Context,
		accountID string,
		data []byte,
		metadata cryptoDomain.EncryptionMetadata,
	) ([]byte, error)
	// EncryptFiles encrypts payloads in parallel. Results keep input order.
	EncryptFiles(ctx context.Context, accountID string, payloads [][]byte) ([]*vaultDomain.EncryptedFile, error)
	// LockAll locks every session, used on shutdown.
	LockAll()
}

// FileUseCase stores and loads encrypted files through an unlocked vault.
type FileUseCase interface {
	Store(ctx context.Context, accountID string, plaintext []byte) (*vaultDomain.StoredFile, error)
	// Load returns plaintext the caller should zero after use.
	Load(ctx context.Context, accountID, objectID string) ([]byte, error)
	Delete(ctx context.Context, accountID, objectID string) error
	List(ctx context.Context, accountID string, offset, limit int) ([]*vaultDomain.StoredFile, error)
}
