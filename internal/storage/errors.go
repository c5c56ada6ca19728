package storage

import (
	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/errors"
)

// Storage error definitions.
var (
	// ErrObjectNotFound indicates no object exists under the account and object ID.
	ErrObjectNotFound = errors.Wrap(errors.ErrNotFound, "object not found")

	// ErrInvalidObjectID indicates an object ID that is not a UUID.
	ErrInvalidObjectID = errors.Wrap(errors.ErrInvalidInput, "invalid object id")

	// ErrMetadataMissing indicates an object without a complete encryption metadata record.
	// Such an object can never be decrypted.
	ErrMetadataMissing = errors.Wrap(cryptoDomain.ErrInvalidMetadata, "object has no encryption metadata")
)
