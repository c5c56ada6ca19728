// Package storage persists encrypted files in a gocloud.dev blob bucket. The encryption
// metadata and plaintext checksum are written as object metadata so they always travel
// with the ciphertext.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// Object metadata keys. gocloud lowercases keys, so they are lowercase here too.
const (
	metaAlgorithm  = "fv-algorithm"
	metaKDF        = "fv-kdf"
	metaIV         = "fv-iv"
	metaSalt       = "fv-salt"
	metaIterations = "fv-iterations"
	metaChecksum   = "fv-checksum"
)

const contentType = "application/octet-stream"

// BlobStore implements the vault ObjectStore on a gocloud.dev bucket.
type BlobStore struct {
	bucket *blob.Bucket
}

// NewBlobStore wraps an open bucket.
func NewBlobStore(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// OpenBlobStore opens the bucket at url (mem://, file:///path or any registered driver).
func OpenBlobStore(ctx context.Context, url string) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open bucket")
	}
	return NewBlobStore(bucket), nil
}

// Close releases the bucket.
func (s *BlobStore) Close() error {
	return s.bucket.Close()
}

// Put writes the ciphertext of file under a new UUIDv7 object ID.
func (s *BlobStore) Put(
	ctx context.Context,
	accountID string,
	file *vaultDomain.EncryptedFile,
	checksum string,
) (string, error) {
	if !vaultDomain.ValidAccountID(accountID) {
		return "", vaultDomain.ErrInvalidAccountID
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate object id")
	}
	objectID := id.String()

	opts := &blob.WriterOptions{
		ContentType: contentType,
		Metadata:    encodeMetadata(file.Metadata, checksum),
	}
	if err := s.bucket.WriteAll(ctx, objectKey(accountID, objectID), file.Data, opts); err != nil {
		return "", apperrors.Wrap(err, "failed to write object")
	}
	return objectID, nil
}

// Get reads an object and its metadata. It returns the recorded plaintext checksum.
func (s *BlobStore) Get(
	ctx context.Context,
	accountID, objectID string,
) (*vaultDomain.EncryptedFile, string, error) {
	key, err := checkedKey(accountID, objectID)
	if err != nil {
		return nil, "", err
	}

	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return nil, "", mapError(err, "failed to read object attributes")
	}

	metadata, checksum, err := decodeMetadata(attrs.Metadata)
	if err != nil {
		return nil, "", err
	}

	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, "", mapError(err, "failed to read object")
	}

	return &vaultDomain.EncryptedFile{Data: data, Metadata: metadata}, checksum, nil
}

// Delete removes an object.
func (s *BlobStore) Delete(ctx context.Context, accountID, objectID string) error {
	key, err := checkedKey(accountID, objectID)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}

// List returns up to limit objects of accountID after skipping offset, oldest first.
// UUIDv7 object IDs sort by creation time.
func (s *BlobStore) List(ctx context.Context, accountID string, offset, limit int) ([]*vaultDomain.StoredFile, error) {
	if !vaultDomain.ValidAccountID(accountID) {
		return nil, vaultDomain.ErrInvalidAccountID
	}

	prefix := accountID + "/"
	it := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	files := make([]*vaultDomain.StoredFile, 0, limit)

	for skipped := 0; len(files) < limit; {
		obj, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list objects")
		}
		if obj.IsDir {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}

		attrs, err := s.bucket.Attributes(ctx, obj.Key)
		if err != nil {
			return nil, mapError(err, "failed to read object attributes")
		}
		metadata, checksum, err := decodeMetadata(attrs.Metadata)
		if err != nil {
			return nil, err
		}

		files = append(files, &vaultDomain.StoredFile{
			ObjectID:  strings.TrimPrefix(obj.Key, prefix),
			AccountID: accountID,
			Checksum:  checksum,
			Size:      obj.Size,
			Metadata:  metadata,
		})
	}
	return files, nil
}

func objectKey(accountID, objectID string) string {
	return accountID + "/" + objectID
}

// checkedKey rejects IDs that could address keys outside the account prefix.
func checkedKey(accountID, objectID string) (string, error) {
	if !vaultDomain.ValidAccountID(accountID) {
		return "", vaultDomain.ErrInvalidAccountID
	}
	if _, err := uuid.Parse(objectID); err != nil {
		return "", ErrInvalidObjectID
	}
	return objectKey(accountID, objectID), nil
}

func mapError(err error, message string) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return ErrObjectNotFound
	}
	return apperrors.Wrap(err, message)
}

func encodeMetadata(m cryptoDomain.EncryptionMetadata, checksum string) map[string]string {
	return map[string]string{
		metaAlgorithm:  string(m.Algorithm),
		metaKDF:        m.KeyDerivation,
		metaIV:         m.IV,
		metaSalt:       m.Salt,
		metaIterations: strconv.Itoa(m.Iterations),
		metaChecksum:   checksum,
	}
}

func decodeMetadata(attrs map[string]string) (cryptoDomain.EncryptionMetadata, string, error) {
	for _, key := range []string{metaAlgorithm, metaKDF, metaIV, metaSalt, metaIterations} {
		if attrs[key] == "" {
			return cryptoDomain.EncryptionMetadata{}, "", fmt.Errorf("%w: %s", ErrMetadataMissing, key)
		}
	}

	iterations, err := strconv.Atoi(attrs[metaIterations])
	if err != nil {
		return cryptoDomain.EncryptionMetadata{}, "", fmt.Errorf("%w: %s", ErrMetadataMissing, metaIterations)
	}

	m := cryptoDomain.EncryptionMetadata{
		Algorithm:     cryptoDomain.Algorithm(attrs[metaAlgorithm]),
		KeyDerivation: attrs[metaKDF],
		IV:            attrs[metaIV],
		Salt:          attrs[metaSalt],
		Iterations:    iterations,
	}
	return m, attrs[metaChecksum], nil
}
