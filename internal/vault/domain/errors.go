package domain

import (
	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/errors"
)

// Vault error definitions.
var (
	// ErrInvalidPassword indicates the password does not match the stored verification hash.
	// There is no recovery path: data encrypted under a forgotten password is lost.
	ErrInvalidPassword = errors.Wrap(
		errors.ErrUnauthorized,
		"invalid vault password (a forgotten password cannot be recovered)",
	)

	// ErrVaultLocked indicates an encrypt or decrypt call on a locked vault.
	ErrVaultLocked = errors.Wrap(errors.ErrLocked, "vault is locked")

	// ErrMetadataMismatch indicates file metadata was produced under a different salt or
	// iteration count than the unlocked session. It is also a decryption failure.
	ErrMetadataMismatch = errors.Wrap(cryptoDomain.ErrDecryptionFailed, "metadata does not match vault key")

	// ErrEncryptionDisabled indicates the account has encryption turned off.
	ErrEncryptionDisabled = errors.Wrap(errors.ErrConflict, "encryption is disabled for this account")

	// ErrCredentialsNotFound indicates the account has never been unlocked.
	ErrCredentialsNotFound = errors.Wrap(errors.ErrNotFound, "vault credentials not found")

	// ErrSealedCredentials indicates the stored verification hash is sealed with a KMS
	// key but no key is configured.
	ErrSealedCredentials = errors.New("verification hash is sealed but no KMS key is configured")

	// ErrChecksumMismatch indicates a decrypted file does not match its recorded checksum.
	ErrChecksumMismatch = errors.Wrap(cryptoDomain.ErrDecryptionFailed, "checksum mismatch")

	// ErrInvalidAccountID indicates an account identifier with unsupported characters.
	ErrInvalidAccountID = errors.Wrap(errors.ErrInvalidInput, "invalid account id")
)
