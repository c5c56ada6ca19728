package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/metrics"
)

const metricsDomain = "keyexchange"

type keyExchangeUseCaseWithMetrics struct {
	next    KeyExchangeUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyExchangeUseCaseWithMetrics wraps a KeyExchangeUseCase with operation counters
// and duration histograms.
func NewKeyExchangeUseCaseWithMetrics(next KeyExchangeUseCase, m metrics.BusinessMetrics) KeyExchangeUseCase {
	return &keyExchangeUseCaseWithMetrics{
		next:    next,
		metrics: m,
	}
}

func (k *keyExchangeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	k.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	k.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func (k *keyExchangeUseCaseWithMetrics) GenerateKeyPair(ctx context.Context) (cryptoDomain.KeyPair, error) {
	start := time.Now()
	pair, err := k.next.GenerateKeyPair(ctx)
	k.record(ctx, "keypair_generate", start, err)
	return pair, err
}

func (k *keyExchangeUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	plaintext []byte,
	publicKey string,
) ([]byte, error) {
	start := time.Now()
	ciphertext, err := k.next.Encrypt(ctx, plaintext, publicKey)
	k.record(ctx, "keypair_encrypt", start, err)
	return ciphertext, err
}

func (k *keyExchangeUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	ciphertext []byte,
	privateKey string,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := k.next.Decrypt(ctx, ciphertext, privateKey)
	k.record(ctx, "keypair_decrypt", start, err)
	return plaintext, err
}

// Checksum passes through without recording metrics.
func (k *keyExchangeUseCaseWithMetrics) Checksum(ctx context.Context, data []byte) string {
	return k.next.Checksum(ctx, data)
}
