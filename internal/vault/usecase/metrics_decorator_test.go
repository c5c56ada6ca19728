package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/metrics"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
	"github.com/allisson/filevault/internal/vault/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "vault", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "vault", operation, mock.AnythingOfType("time.Duration"), status).Return().Once()
}

func TestNewVaultUseCaseWithMetrics(t *testing.T) {
	decorator := NewVaultUseCaseWithMetrics(&mocks.MockVaultUseCase{}, &mockBusinessMetrics{})
	assert.NotNil(t, decorator)
	assert.Implements(t, (*VaultUseCase)(nil), decorator)
}

func TestVaultMetricsDecorator_Unlock(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		ok         bool
		err        error
		wantStatus string
	}{
		{name: "Success", ok: true, wantStatus: "success"},
		{name: "WrongPassword", ok: false, wantStatus: "rejected"},
		{name: "Error", ok: false, err: errors.New("db down"), wantStatus: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mocks.MockVaultUseCase{}
			m := &mockBusinessMetrics{}
			uc.On("Unlock", ctx, "alice", "pw").Return(tt.ok, tt.err).Once()
			expectMetrics(m, ctx, "vault_unlock", tt.wantStatus)

			ok, err := NewVaultUseCaseWithMetrics(uc, m).Unlock(ctx, "alice", "pw")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.err, err)
			uc.AssertExpectations(t)
			m.AssertExpectations(t)
		})
	}
}

func TestVaultMetricsDecorator_Operations(t *testing.T) {
	ctx := context.Background()
	meta := cryptoDomain.EncryptionMetadata{Algorithm: cryptoDomain.AESGCM}
	file := &vaultDomain.EncryptedFile{Data: []byte("ct"), Metadata: meta}

	t.Run("Lock", func(t *testing.T) {
		uc := &mocks.MockVaultUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Lock", ctx, "alice").Return(nil).Once()
		expectMetrics(m, ctx, "vault_lock", "success")

		assert.NoError(t, NewVaultUseCaseWithMetrics(uc, m).Lock(ctx, "alice"))
		m.AssertExpectations(t)
	})

	t.Run("EncryptFile_Error", func(t *testing.T) {
		uc := &mocks.MockVaultUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("EncryptFile", ctx, "alice", []byte("pt")).Return(nil, vaultDomain.ErrVaultLocked).Once()
		expectMetrics(m, ctx, "vault_encrypt", "error")

		_, err := NewVaultUseCaseWithMetrics(uc, m).EncryptFile(ctx, "alice", []byte("pt"))
		assert.ErrorIs(t, err, vaultDomain.ErrVaultLocked)
		m.AssertExpectations(t)
	})

	t.Run("DecryptFile_Success", func(t *testing.T) {
		uc := &mocks.MockVaultUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("DecryptFile", ctx, "alice", file.Data, meta).Return([]byte("pt"), nil).Once()
		expectMetrics(m, ctx, "vault_decrypt", "success")

		pt, err := NewVaultUseCaseWithMetrics(uc, m).DecryptFile(ctx, "alice", file.Data, meta)
		assert.NoError(t, err)
		assert.Equal(t, []byte("pt"), pt)
		m.AssertExpectations(t)
	})

	t.Run("EncryptFiles_Success", func(t *testing.T) {
		uc := &mocks.MockVaultUseCase{}
		m := &mockBusinessMetrics{}
		payloads := [][]byte{[]byte("a")}
		uc.On("EncryptFiles", ctx, "alice", payloads).Return([]*vaultDomain.EncryptedFile{file}, nil).Once()
		expectMetrics(m, ctx, "vault_encrypt_batch", "success")

		files, err := NewVaultUseCaseWithMetrics(uc, m).EncryptFiles(ctx, "alice", payloads)
		assert.NoError(t, err)
		assert.Len(t, files, 1)
		m.AssertExpectations(t)
	})

	t.Run("Status_And_Toggle", func(t *testing.T) {
		uc := &mocks.MockVaultUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Status", ctx, "alice").Return(&vaultDomain.Status{AccountID: "alice"}, nil).Once()
		uc.On("SetEncryptionEnabled", ctx, "alice", false).Return(nil).Once()
		expectMetrics(m, ctx, "vault_status", "success")
		expectMetrics(m, ctx, "vault_set_encryption", "success")

		d := NewVaultUseCaseWithMetrics(uc, m)
		_, err := d.Status(ctx, "alice")
		assert.NoError(t, err)
		assert.NoError(t, d.SetEncryptionEnabled(ctx, "alice", false))
		m.AssertExpectations(t)
	})

	t.Run("LockAll_NotInstrumented", func(t *testing.T) {
		uc := &mocks.MockVaultUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("LockAll").Return().Once()

		NewVaultUseCaseWithMetrics(uc, m).LockAll()
		uc.AssertExpectations(t)
		m.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFileMetricsDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("Store", func(t *testing.T) {
		uc := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Store", ctx, "alice", []byte("pt")).Return(&vaultDomain.StoredFile{ObjectID: "obj"}, nil).Once()
		expectMetrics(m, ctx, "file_store", "success")

		stored, err := NewFileUseCaseWithMetrics(uc, m).Store(ctx, "alice", []byte("pt"))
		assert.NoError(t, err)
		assert.Equal(t, "obj", stored.ObjectID)
		m.AssertExpectations(t)
	})

	t.Run("Load_Error", func(t *testing.T) {
		uc := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Load", ctx, "alice", "obj").Return(nil, vaultDomain.ErrChecksumMismatch).Once()
		expectMetrics(m, ctx, "file_load", "error")

		_, err := NewFileUseCaseWithMetrics(uc, m).Load(ctx, "alice", "obj")
		assert.ErrorIs(t, err, vaultDomain.ErrChecksumMismatch)
		m.AssertExpectations(t)
	})

	t.Run("Delete", func(t *testing.T) {
		uc := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Delete", ctx, "alice", "obj").Return(nil).Once()
		expectMetrics(m, ctx, "file_delete", "success")

		assert.NoError(t, NewFileUseCaseWithMetrics(uc, m).Delete(ctx, "alice", "obj"))
		m.AssertExpectations(t)
	})

	t.Run("List", func(t *testing.T) {
		uc := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		files := []*vaultDomain.StoredFile{{ObjectID: "obj"}}
		uc.On("List", ctx, "alice", 0, 50).Return(files, nil).Once()
		expectMetrics(m, ctx, "file_list", "success")

		got, err := NewFileUseCaseWithMetrics(uc, m).List(ctx, "alice", 0, 50)
		assert.NoError(t, err)
		assert.Equal(t, files, got)
		m.AssertExpectations(t)
	})
}
