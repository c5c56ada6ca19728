package usecase

import (
	"context"
	"log/slog"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// fileUseCase implements FileUseCase on top of a VaultUseCase and an ObjectStore.
type fileUseCase struct {
	vault  VaultUseCase
	store  ObjectStore
	logger *slog.Logger
}

// NewFileUseCase creates a FileUseCase.
func NewFileUseCase(vault VaultUseCase, store ObjectStore, logger *slog.Logger) FileUseCase {
	return &fileUseCase{
		vault:  vault,
		store:  store,
		logger: logger,
	}
}

// Store encrypts plaintext and writes it with its metadata and plaintext checksum.
func (f *fileUseCase) Store(ctx context.Context, accountID string, plaintext []byte) (*vaultDomain.StoredFile, error) {
	file, err := f.vault.EncryptFile(ctx, accountID, plaintext)
	if err != nil {
		return nil, err
	}

	checksum := cryptoService.Checksum(plaintext)
	objectID, err := f.store.Put(ctx, accountID, file, checksum)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("file stored",
		slog.String("account_id", accountID),
		slog.String("object_id", objectID),
		slog.Int("size", len(file.Data)),
	)

	return &vaultDomain.StoredFile{
		ObjectID:  objectID,
		AccountID: accountID,
		Checksum:  checksum,
		Size:      int64(len(file.Data)),
		Metadata:  file.Metadata,
	}, nil
}

// Load reads, decrypts and checksum-verifies an object.
func (f *fileUseCase) Load(ctx context.Context, accountID, objectID string) ([]byte, error) {
	file, checksum, err := f.store.Get(ctx, accountID, objectID)
	if err != nil {
		return nil, err
	}

	plaintext, err := f.vault.DecryptFile(ctx, accountID, file.Data, file.Metadata)
	if err != nil {
		return nil, err
	}

	if checksum != "" && cryptoService.Checksum(plaintext) != checksum {
		cryptoDomain.Zero(plaintext)
		return nil, vaultDomain.ErrChecksumMismatch
	}
	return plaintext, nil
}

// Delete removes an object. The vault must be unlocked.
func (f *fileUseCase) Delete(ctx context.Context, accountID, objectID string) error {
	if err := f.requireUnlocked(ctx, accountID); err != nil {
		return err
	}
	return f.store.Delete(ctx, accountID, objectID)
}

// List returns stored object descriptions. The vault must be unlocked.
func (f *fileUseCase) List(ctx context.Context, accountID string, offset, limit int) ([]*vaultDomain.StoredFile, error) {
	if err := f.requireUnlocked(ctx, accountID); err != nil {
		return nil, err
	}
	return f.store.List(ctx, accountID, offset, limit)
}

func (f *fileUseCase) requireUnlocked(ctx context.Context, accountID string) error {
	status, err := f.vault.Status(ctx, accountID)
	if err != nil {
		return err
	}
	if status.State != vaultDomain.Unlocked {
		return vaultDomain.ErrVaultLocked
	}
	return nil
}
