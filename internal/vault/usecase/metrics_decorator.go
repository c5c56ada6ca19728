package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/metrics"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

const metricsDomain = "vault"

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	v.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	v.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func statusOf(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}

// Unlock records a "rejected" status for wrong passwords.
func (v *vaultUseCaseWithMetrics) Unlock(ctx context.Context, accountID, password string) (bool, error) {
	start := time.Now()
	ok, err := v.next.Unlock(ctx, accountID, password)

	status := statusOf(err)
	if err == nil && !ok {
		status = "rejected"
	}
	v.record(ctx, "vault_unlock", start, status)

	return ok, err
}

// Lock records metrics for lock operations.
func (v *vaultUseCaseWithMetrics) Lock(ctx context.Context, accountID string) error {
	start := time.Now()
	err := v.next.Lock(ctx, accountID)
	v.record(ctx, "vault_lock", start, statusOf(err))
	return err
}

// Status records metrics for status queries.
func (v *vaultUseCaseWithMetrics) Status(ctx context.Context, accountID string) (*vaultDomain.Status, error) {
	start := time.Now()
	status, err := v.next.Status(ctx, accountID)
	v.record(ctx, "vault_status", start, statusOf(err))
	return status, err
}

// SetEncryptionEnabled records metrics for encryption toggles.
func (v *vaultUseCaseWithMetrics) SetEncryptionEnabled(ctx context.Context, accountID string, enabled bool) error {
	start := time.Now()
	err := v.next.SetEncryptionEnabled(ctx, accountID, enabled)
	v.record(ctx, "vault_set_encryption", start, statusOf(err))
	return err
}

// EncryptFile records metrics for encryption.
func (v *vaultUseCaseWithMetrics) EncryptFile(
	ctx context.Context,
	accountID string,
	data []byte,
) (*vaultDomain.EncryptedFile, error) {
	start := time.Now()
	file, err := v.next.EncryptFile(ctx, accountID, data)
	v.record(ctx, "vault_encrypt", start, statusOf(err))
	return file, err
}

// DecryptFile records metrics for decryption.
func (v *vaultUseCaseWithMetrics) DecryptFile(
	ctx context.Context,
	accountID string,
	data []byte,
	metadata cryptoDomain.EncryptionMetadata,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := v.next.DecryptFile(ctx, accountID, data, metadata)
	v.record(ctx, "vault_decrypt", start, statusOf(err))
	return plaintext, err
}

// EncryptFiles records metrics for batch encryption.
func (v *vaultUseCaseWithMetrics) EncryptFiles(
	ctx context.Context,
	accountID string,
	payloads [][]byte,
) ([]*vaultDomain.EncryptedFile, error) {
	start := time.Now()
	files, err := v.next.EncryptFiles(ctx, accountID, payloads)
	v.record(ctx, "vault_encrypt_batch", start, statusOf(err))
	return files, err
}

// LockAll is not instrumented.
func (v *vaultUseCaseWithMetrics) LockAll() {
	v.next.LockAll()
}

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *fileUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	f.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	f.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Store records metrics for file storage.
func (f *fileUseCaseWithMetrics) Store(
	ctx context.Context,
	accountID string,
	plaintext []byte,
) (*vaultDomain.StoredFile, error) {
	start := time.Now()
	stored, err := f.next.Store(ctx, accountID, plaintext)
	f.record(ctx, "file_store", start, err)
	return stored, err
}

// Load records metrics for file retrieval.
func (f *fileUseCaseWithMetrics) Load(ctx context.Context, accountID, objectID string) ([]byte, error) {
	start := time.Now()
	plaintext, err := f.next.Load(ctx, accountID, objectID)
	f.record(ctx, "file_load", start, err)
	return plaintext, err
}

// Delete records metrics for file deletion.
func (f *fileUseCaseWithMetrics) Delete(ctx context.Context, accountID, objectID string) error {
	start := time.Now()
	err := f.next.Delete(ctx, accountID, objectID)
	f.record(ctx, "file_delete", start, err)
	return err
}

// List records file_list.
func (f *fileUseCaseWithMetrics) List(
	ctx context.Context,
	accountID string,
	offset, limit int,
) ([]*vaultDomain.StoredFile, error) {
	start := time.Now()
	files, err := f.next.List(ctx, accountID, offset, limit)
	f.record(ctx, "file_list", start, err)
	return files, err
}
