package usecase

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	"github.com/allisson/filevault/internal/database"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// DefaultIdleTimeout is the inactivity period after which an unlocked vault locks itself.
const DefaultIdleTimeout = 30 * time.Minute

// errCredentialsExist signals that another caller finished first-time setup concurrently.
var errCredentialsExist = errors.New("credentials already exist")

// SessionConfig holds the collaborators shared by every session.
type SessionConfig struct {
	Repository    CredentialRepository
	TxManager     database.TxManager
	KeyDeriver    cryptoService.KeyDeriver
	CipherManager cryptoService.CipherManager
	// Keeper seals verification hashes at rest. Nil stores them as plain hex.
	Keeper      cryptoService.Keeper
	Algorithm   cryptoDomain.Algorithm
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// Session is the lock/unlock state machine for a single account.
//
// Encrypt and decrypt calls share the read lock and run in parallel; unlock, lock and
// the encryption toggle take the write lock. The idle timer is re-armed on every
// successful unlock, encrypt and decrypt. Each arm bumps a generation counter so a
// timer that fires after it was superseded does nothing.
type Session struct {
	accountID string
	cfg       *SessionConfig

	mu         sync.RWMutex
	key        []byte
	salt       []byte
	iterations int
	enabled    bool

	timerMu      sync.Mutex
	timer        *time.Timer
	generation   uint64
	lastActivity time.Time
}

// NewSession creates a locked session. enabled is the account's stored encryption flag.
func NewSession(accountID string, enabled bool, cfg *SessionConfig) *Session {
	return &Session{
		accountID: accountID,
		cfg:       cfg,
		enabled:   enabled,
	}
}

// Unlock verifies password and, on success, derives and holds the vault key.
//
// The first unlock of an account creates its salt and verification hash. A wrong
// password returns (false, nil) and leaves the session state unchanged.
func (s *Session) Unlock(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, cryptoDomain.ErrEmptyPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.cfg.Repository.Get(ctx, s.accountID)
	switch {
	case err == nil:
		return s.unlockExisting(ctx, password, creds)
	case errors.Is(err, vaultDomain.ErrCredentialsNotFound):
		if !s.enabled {
			return false, vaultDomain.ErrEncryptionDisabled
		}
		return s.setup(ctx, password)
	default:
		return false, err
	}
}

func (s *Session) setup(ctx context.Context, password string) (bool, error) {
	key, salt, iterations, err := s.cfg.KeyDeriver.DeriveKey(password, nil)
	if err != nil {
		return false, err
	}

	hash, _, err := s.cfg.KeyDeriver.HashForVerification(password, salt)
	if err != nil {
		cryptoDomain.Zero(key)
		return false, err
	}
	storedHash, sealed, err := s.sealHash(ctx, hash)
	cryptoDomain.Zero(hash)
	if err != nil {
		cryptoDomain.Zero(key)
		return false, err
	}

	now := time.Now().UTC()
	creds := &vaultDomain.Credentials{
		AccountID:         s.accountID,
		Salt:              hex.EncodeToString(salt),
		VerificationHash:  storedHash,
		HashSealed:        sealed,
		KDFIterations:     iterations,
		EncryptionEnabled: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.cfg.TxManager.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.cfg.Repository.Get(ctx, s.accountID)
		if err == nil {
			return errCredentialsExist
		}
		if !errors.Is(err, vaultDomain.ErrCredentialsNotFound) {
			return err
		}
		return s.cfg.Repository.Create(ctx, creds)
	})
	if err != nil {
		cryptoDomain.Zero(key)
		if !errors.Is(err, errCredentialsExist) {
			return false, err
		}
		existing, err := s.cfg.Repository.Get(ctx, s.accountID)
		if err != nil {
			return false, err
		}
		return s.unlockExisting(ctx, password, existing)
	}

	s.setKey(key, salt, iterations)
	s.cfg.Logger.Info("vault created", slog.String("account_id", s.accountID))
	return true, nil
}

func (s *Session) unlockExisting(ctx context.Context, password string, creds *vaultDomain.Credentials) (bool, error) {
	s.enabled = creds.EncryptionEnabled
	if !creds.EncryptionEnabled {
		s.lockLocked()
		return false, vaultDomain.ErrEncryptionDisabled
	}

	storedHash, err := s.openHash(ctx, creds)
	if err != nil {
		return false, err
	}

	if !s.cfg.KeyDeriver.Verify(password, storedHash, creds.Salt) {
		s.cfg.Logger.Warn("unlock rejected", slog.String("account_id", s.accountID))
		return false, nil
	}

	salt, err := hex.DecodeString(creds.Salt)
	if err != nil {
		return false, fmt.Errorf("%w: stored salt is not valid hex", cryptoDomain.ErrInvalidSalt)
	}

	key, _, err := s.cfg.KeyDeriver.DeriveKeyWithIterations(password, salt, creds.KDFIterations)
	if err != nil {
		return false, err
	}

	s.setKey(key, salt, creds.KDFIterations)
	s.cfg.Logger.Info("vault unlocked", slog.String("account_id", s.accountID))
	return true, nil
}

// sealHash returns the persisted form of a verification hash.
func (s *Session) sealHash(ctx context.Context, hash []byte) (string, bool, error) {
	if s.cfg.Keeper == nil {
		return hex.EncodeToString(hash), false, nil
	}
	sealed, err := s.cfg.Keeper.Encrypt(ctx, hash)
	if err != nil {
		return "", false, fmt.Errorf("failed to seal verification hash: %w", err)
	}
	return hex.EncodeToString(sealed), true, nil
}

// openHash returns the hex verification hash, unsealing it when needed.
func (s *Session) openHash(ctx context.Context, creds *vaultDomain.Credentials) (string, error) {
	if !creds.HashSealed {
		return creds.VerificationHash, nil
	}
	if s.cfg.Keeper == nil {
		return "", vaultDomain.ErrSealedCredentials
	}
	sealed, err := hex.DecodeString(creds.VerificationHash)
	if err != nil {
		return "", fmt.Errorf("sealed verification hash is not valid hex: %w", err)
	}
	hash, err := s.cfg.Keeper.Decrypt(ctx, sealed)
	if err != nil {
		return "", fmt.Errorf("failed to open verification hash: %w", err)
	}
	defer cryptoDomain.Zero(hash)
	return hex.EncodeToString(hash), nil
}

// setKey replaces the held key and re-arms the idle timer. Caller holds mu.
func (s *Session) setKey(key, salt []byte, iterations int) {
	cryptoDomain.Zero(s.key)
	s.key = key
	s.salt = salt
	s.iterations = iterations
	s.touch()
}

// Lock discards the key and cancels the idle timer. Locking a locked vault is a no-op.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lockLocked() {
		s.cfg.Logger.Info("vault locked", slog.String("account_id", s.accountID))
	}
}

// lockLocked drops the key and reports whether the vault was unlocked. Caller holds mu.
func (s *Session) lockLocked() bool {
	s.stopTimer()
	if s.key == nil {
		return false
	}
	cryptoDomain.Zero(s.key)
	s.key = nil
	s.salt = nil
	s.iterations = 0
	return true
}

// IsUnlocked reports whether the session holds a key. It does not count as activity.
func (s *Session) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != nil
}

// IsEncryptionEnabled reports the account's encryption flag.
func (s *Session) IsEncryptionEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// LastActivity returns the time of the last unlock, encrypt or decrypt.
func (s *Session) LastActivity() time.Time {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	return s.lastActivity
}

// Status returns a snapshot of the session.
func (s *Session) Status() *vaultDomain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := vaultDomain.Locked
	if s.key != nil {
		state = vaultDomain.Unlocked
	}
	return &vaultDomain.Status{
		AccountID:         s.accountID,
		State:             state,
		EncryptionEnabled: s.enabled,
		LastActivity:      s.LastActivity(),
	}
}

// SetEncryptionEnabled locks the vault and then stores the new flag. The lock happens
// whatever the current state and whatever the new value.
func (s *Session) SetEncryptionEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lockLocked() {
		s.cfg.Logger.Info("vault locked", slog.String("account_id", s.accountID))
	}

	err := s.cfg.Repository.UpdateEncryptionEnabled(ctx, s.accountID, enabled)
	if err != nil && !errors.Is(err, vaultDomain.ErrCredentialsNotFound) {
		return err
	}

	s.enabled = enabled
	s.cfg.Logger.Info("encryption toggled",
		slog.String("account_id", s.accountID),
		slog.Bool("enabled", enabled),
	)
	return nil
}

// EncryptFile encrypts data with the session key under a fresh IV.
func (s *Session) EncryptFile(ctx context.Context, data []byte) (*vaultDomain.EncryptedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return nil, vaultDomain.ErrVaultLocked
	}

	metadata := cryptoDomain.EncryptionMetadata{
		Algorithm:     s.cfg.Algorithm,
		KeyDerivation: cryptoDomain.KeyDerivationPBKDF2SHA256,
		Salt:          hex.EncodeToString(s.salt),
		Iterations:    s.iterations,
	}

	cipher, err := s.cfg.CipherManager.CreateCipher(s.key, metadata.Algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, iv, err := cipher.Encrypt(data, metadata.AssociatedData())
	if err != nil {
		return nil, err
	}
	metadata.IV = hex.EncodeToString(iv)

	s.touch()
	return &vaultDomain.EncryptedFile{Data: ciphertext, Metadata: metadata}, nil
}

// DecryptFile decrypts data produced by EncryptFile under the same vault key.
//
// The metadata salt and iteration count must match the unlocked key; otherwise the
// call fails with ErrMetadataMismatch before any decryption is attempted.
func (s *Session) DecryptFile(
	ctx context.Context,
	data []byte,
	metadata cryptoDomain.EncryptionMetadata,
) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return nil, vaultDomain.ErrVaultLocked
	}

	if err := metadata.Validate(); err != nil {
		return nil, err
	}
	salt, err := metadata.SaltBytes()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(salt, s.salt) || metadata.Iterations != s.iterations {
		return nil, vaultDomain.ErrMetadataMismatch
	}
	iv, err := metadata.IVBytes()
	if err != nil {
		return nil, err
	}

	cipher, err := s.cfg.CipherManager.CreateCipher(s.key, metadata.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(data, iv, metadata.AssociatedData())
	if err != nil {
		return nil, err
	}

	s.touch()
	return plaintext, nil
}

// touch records activity and re-arms the idle timer. Caller holds mu (read or write).
func (s *Session) touch() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	s.lastActivity = time.Now().UTC()
	s.generation++
	gen := s.generation

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.IdleTimeout, func() {
		s.expire(gen)
	})
}

// stopTimer cancels any pending idle timer. Caller holds mu.
func (s *Session) stopTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire locks the vault if timer generation gen is still current.
func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timerMu.Lock()
	current := s.generation
	s.timerMu.Unlock()

	if gen != current {
		return
	}
	if s.lockLocked() {
		s.cfg.Logger.Info("vault auto-locked",
			slog.String("account_id", s.accountID),
			slog.Duration("idle_timeout", s.cfg.IdleTimeout),
		)
	}
}
