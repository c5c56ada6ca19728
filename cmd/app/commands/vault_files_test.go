package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
	vaultMocks "github.com/allisson/filevault/internal/vault/usecase/mocks"
)

func newVaultMocks(t *testing.T) (*vaultMocks.MockVaultUseCase, *vaultMocks.MockFileUseCase) {
	t.Helper()
	vault := &vaultMocks.MockVaultUseCase{}
	files := &vaultMocks.MockFileUseCase{}
	t.Cleanup(func() {
		vault.AssertExpectations(t)
		files.AssertExpectations(t)
	})
	return vault, files
}

func TestRunEncryptFile(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	inputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(inputPath, []byte("quarterly numbers"), 0o600))

	t.Run("success", func(t *testing.T) {
		vault, files := newVaultMocks(t)
		vault.On("Unlock", anyContext, "alice", "correct horse").Return(true, nil).Once()
		files.On("Store", anyContext, "alice", []byte("quarterly numbers")).Return(&vaultDomain.StoredFile{
			ObjectID: "0190a3c4-0000-7000-8000-000000000001",
			Checksum: "abc123",
			Size:     45,
			Metadata: cryptoDomain.EncryptionMetadata{Algorithm: cryptoDomain.AESGCM},
		}, nil).Once()
		vault.On("Lock", anyContext, "alice").Return(nil).Once()

		var out bytes.Buffer
		err := RunEncryptFile(ctx, vault, files, logger, &out, "alice", "correct horse", inputPath, "text")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "object_id: 0190a3c4-0000-7000-8000-000000000001")
		assert.Contains(t, out.String(), "algorithm: AES-GCM")
	})

	t.Run("wrong-password", func(t *testing.T) {
		vault, files := newVaultMocks(t)
		vault.On("Unlock", anyContext, "alice", "guess").Return(false, nil).Once()

		err := RunEncryptFile(ctx, vault, files, logger, io.Discard, "alice", "guess", inputPath, "text")
		assert.ErrorIs(t, err, vaultDomain.ErrInvalidPassword)
	})

	t.Run("store-error-still-locks", func(t *testing.T) {
		vault, files := newVaultMocks(t)
		vault.On("Unlock", anyContext, "alice", "correct horse").Return(true, nil).Once()
		files.On("Store", anyContext, "alice", []byte("quarterly numbers")).
			Return(nil, vaultDomain.ErrEncryptionDisabled).Once()
		vault.On("Lock", anyContext, "alice").Return(nil).Once()

		err := RunEncryptFile(ctx, vault, files, logger, io.Discard, "alice", "correct horse", inputPath, "text")
		assert.ErrorIs(t, err, vaultDomain.ErrEncryptionDisabled)
	})

	t.Run("missing-input", func(t *testing.T) {
		vault, files := newVaultMocks(t)

		err := RunEncryptFile(ctx, vault, files, logger, io.Discard, "alice", "pw", filepath.Join(t.TempDir(), "nope"), "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestRunDecryptFile(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	objectID := "0190a3c4-0000-7000-8000-000000000001"

	t.Run("to-file", func(t *testing.T) {
		vault, files := newVaultMocks(t)
		vault.On("Unlock", anyContext, "alice", "correct horse").Return(true, nil).Once()
		files.On("Load", anyContext, "alice", objectID).Return([]byte("quarterly numbers"), nil).Once()
		vault.On("Lock", anyContext, "alice").Return(nil).Once()

		outputPath := filepath.Join(t.TempDir(), "report.txt")
		err := RunDecryptFile(ctx, vault, files, logger, io.Discard, "alice", "correct horse", objectID, outputPath)
		require.NoError(t, err)

		content, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.Equal(t, "quarterly numbers", string(content))

		info, err := os.Stat(outputPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("to-writer", func(t *testing.T) {
		vault, files := newVaultMocks(t)
		vault.On("Unlock", anyContext, "alice", "correct horse").Return(true, nil).Once()
		files.On("Load", anyContext, "alice", objectID).Return([]byte("quarterly numbers"), nil).Once()
		vault.On("Lock", anyContext, "alice").Return(nil).Once()

		var out bytes.Buffer
		err := RunDecryptFile(ctx, vault, files, logger, &out, "alice", "correct horse", objectID, "-")
		require.NoError(t, err)
		assert.Equal(t, "quarterly numbers", out.String())
	})

	t.Run("checksum-mismatch", func(t *testing.T) {
		vault, files := newVaultMocks(t)
		vault.On("Unlock", anyContext, "alice", "correct horse").Return(true, nil).Once()
		files.On("Load", anyContext, "alice", objectID).Return(nil, vaultDomain.ErrChecksumMismatch).Once()
		vault.On("Lock", anyContext, "alice").Return(nil).Once()

		err := RunDecryptFile(ctx, vault, files, logger, io.Discard, "alice", "correct horse", objectID, "-")
		assert.ErrorIs(t, err, vaultDomain.ErrChecksumMismatch)
	})

	t.Run("unlock-error", func(t *testing.T) {
		vault, files := newVaultMocks(t)
		vault.On("Unlock", anyContext, "alice", "correct horse").Return(false, errors.New("db down")).Once()

		err := RunDecryptFile(ctx, vault, files, logger, io.Discard, "alice", "correct horse", objectID, "-")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unlock vault")
	})
}
