package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// DefaultWorkers is the batch encryption parallelism used when none is configured.
const DefaultWorkers = 4

// Manager implements VaultUseCase with one Session per account, created on the
// first unlock or encryption toggle.
type Manager struct {
	cfg     *SessionConfig
	workers int

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. workers bounds EncryptFiles parallelism.
func NewManager(cfg *SessionConfig, workers int) *Manager {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		cfg:      cfg,
		workers:  workers,
		sessions: make(map[string]*Session),
	}
}

// lookup returns the existing session for accountID, or nil.
func (m *Manager) lookup(accountID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[accountID]
}

// session returns the session for accountID, creating it from stored credentials.
func (m *Manager) session(ctx context.Context, accountID string) (*Session, error) {
	if !vaultDomain.ValidAccountID(accountID) {
		return nil, vaultDomain.ErrInvalidAccountID
	}
	if s := m.lookup(accountID); s != nil {
		return s, nil
	}

	enabled, err := m.storedEnabled(ctx, accountID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[accountID]; ok {
		return s, nil
	}
	s := NewSession(accountID, enabled, m.cfg)
	m.sessions[accountID] = s
	return s, nil
}

// storedEnabled reads the persisted encryption flag. Accounts never set up are enabled.
func (m *Manager) storedEnabled(ctx context.Context, accountID string) (bool, error) {
	creds, err := m.cfg.Repository.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrCredentialsNotFound) {
			return true, nil
		}
		return false, err
	}
	return creds.EncryptionEnabled, nil
}

// Unlock unlocks the vault of accountID.
func (m *Manager) Unlock(ctx context.Context, accountID, password string) (bool, error) {
	s, err := m.session(ctx, accountID)
	if err != nil {
		return false, err
	}
	return s.Unlock(ctx, password)
}

// Lock locks the vault of accountID. Unknown accounts are already locked.
func (m *Manager) Lock(ctx context.Context, accountID string) error {
	if !vaultDomain.ValidAccountID(accountID) {
		return vaultDomain.ErrInvalidAccountID
	}
	if s := m.lookup(accountID); s != nil {
		s.Lock()
	}
	return nil
}

// Status reports the lock state and encryption flag of accountID.
func (m *Manager) Status(ctx context.Context, accountID string) (*vaultDomain.Status, error) {
	if !vaultDomain.ValidAccountID(accountID) {
		return nil, vaultDomain.ErrInvalidAccountID
	}
	if s := m.lookup(accountID); s != nil {
		return s.Status(), nil
	}

	enabled, err := m.storedEnabled(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &vaultDomain.Status{
		AccountID:         accountID,
		State:             vaultDomain.Locked,
		EncryptionEnabled: enabled,
	}, nil
}

// SetEncryptionEnabled locks the vault of accountID and stores the new flag.
func (m *Manager) SetEncryptionEnabled(ctx context.Context, accountID string, enabled bool) error {
	s, err := m.session(ctx, accountID)
	if err != nil {
		return err
	}
	return s.SetEncryptionEnabled(ctx, enabled)
}

// EncryptFile encrypts data under the unlocked vault of accountID.
func (m *Manager) EncryptFile(ctx context.Context, accountID string, data []byte) (*vaultDomain.EncryptedFile, error) {
	s := m.lookup(accountID)
	if s == nil {
		return nil, vaultDomain.ErrVaultLocked
	}
	return s.EncryptFile(ctx, data)
}

// DecryptFile decrypts data under the unlocked vault of accountID.
func (m *Manager) DecryptFile(
	ctx context.Context,
	accountID string,
	data []byte,
	metadata cryptoDomain.EncryptionMetadata,
) ([]byte, error) {
	s := m.lookup(accountID)
	if s == nil {
		return nil, vaultDomain.ErrVaultLocked
	}
	return s.DecryptFile(ctx, data, metadata)
}

// EncryptFiles encrypts payloads concurrently under one unlocked session. The first
// failure cancels the payloads not yet started and is returned.
func (m *Manager) EncryptFiles(
	ctx context.Context,
	accountID string,
	payloads [][]byte,
) ([]*vaultDomain.EncryptedFile, error) {
	s := m.lookup(accountID)
	if s == nil {
		return nil, vaultDomain.ErrVaultLocked
	}

	results := make([]*vaultDomain.EncryptedFile, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i, payload := range payloads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := s.EncryptFile(gctx, payload)
			if err != nil {
				return fmt.Errorf("payload %d: %w", i, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LockAll locks every known session.
func (m *Manager) LockAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Lock()
	}
}

// SessionCounts reports how many known sessions are unlocked and locked.
func (m *Manager) SessionCounts() (unlocked, locked int) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		if s.IsUnlocked() {
			unlocked++
		} else {
			locked++
		}
	}
	return unlocked, locked
}
