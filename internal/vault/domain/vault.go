// Package domain defines the vault state machine types, persisted credentials and errors.
package domain

import (
	"regexp"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// State is the lock state of a vault session.
type State int

const (
	// Locked means no derived key is held; encrypt and decrypt are refused.
	Locked State = iota
	// Unlocked means the session holds the derived key.
	Unlocked
)

// String returns the lowercase state name.
func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// accountIDRegex restricts account IDs to characters safe in URLs and object keys.
var accountIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidAccountID reports whether id is usable as an account identifier.
func ValidAccountID(id string) bool {
	return accountIDRegex.MatchString(id)
}

// Credentials is the persisted per-account record created on the first unlock.
//
// Salt and VerificationHash are hex encoded. When HashSealed is true VerificationHash
// holds the hex of a KMS ciphertext of the hash rather than the hash itself.
// Neither the password nor the derived key is ever stored.
type Credentials struct {
	AccountID         string
	Salt              string
	VerificationHash  string
	HashSealed        bool
	KDFIterations     int
	EncryptionEnabled bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Status is a point-in-time view of a vault session.
type Status struct {
	AccountID         string
	State             State
	EncryptionEnabled bool
	LastActivity      time.Time
}

// EncryptedFile pairs a ciphertext with the metadata needed to decrypt it.
type EncryptedFile struct {
	Data     []byte
	Metadata cryptoDomain.EncryptionMetadata
}

// StoredFile describes an encrypted object written to the object store.
type StoredFile struct {
	ObjectID  string
	AccountID string
	Checksum  string
	Size      int64
	Metadata  cryptoDomain.EncryptionMetadata
}
