package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/keyexchange/usecase/mocks"
)

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

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "keyexchange", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "keyexchange", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestKeyExchangeMetricsDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("GenerateKeyPair", func(t *testing.T) {
		uc := &mocks.MockKeyExchangeUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("GenerateKeyPair", ctx).Return(cryptoDomain.KeyPair{PublicKey: "pub"}, nil).Once()
		expectMetrics(m, ctx, "keypair_generate", "success")

		pair, err := NewKeyExchangeUseCaseWithMetrics(uc, m).GenerateKeyPair(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "pub", pair.PublicKey)
		m.AssertExpectations(t)
	})

	t.Run("Encrypt_Error", func(t *testing.T) {
		uc := &mocks.MockKeyExchangeUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Encrypt", ctx, []byte("pt"), "pub").Return(nil, cryptoDomain.ErrPlaintextTooLarge).Once()
		expectMetrics(m, ctx, "keypair_encrypt", "error")

		_, err := NewKeyExchangeUseCaseWithMetrics(uc, m).Encrypt(ctx, []byte("pt"), "pub")
		assert.ErrorIs(t, err, cryptoDomain.ErrPlaintextTooLarge)
		m.AssertExpectations(t)
	})

	t.Run("Decrypt", func(t *testing.T) {
		uc := &mocks.MockKeyExchangeUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Decrypt", ctx, []byte("ct"), "priv").Return([]byte("pt"), nil).Once()
		expectMetrics(m, ctx, "keypair_decrypt", "success")

		pt, err := NewKeyExchangeUseCaseWithMetrics(uc, m).Decrypt(ctx, []byte("ct"), "priv")
		assert.NoError(t, err)
		assert.Equal(t, []byte("pt"), pt)
		m.AssertExpectations(t)
	})

	t.Run("Checksum_NotRecorded", func(t *testing.T) {
		uc := &mocks.MockKeyExchangeUseCase{}
		m := &mockBusinessMetrics{}
		uc.On("Checksum", ctx, []byte("x")).Return("sum").Once()

		assert.Equal(t, "sum", NewKeyExchangeUseCaseWithMetrics(uc, m).Checksum(ctx, []byte("x")))
		m.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
