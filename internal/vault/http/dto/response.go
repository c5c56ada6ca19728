package dto

import (
	"encoding/base64"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// UnlockResponse reports the result of an unlock attempt.
type UnlockResponse struct {
	Unlocked bool `json:"unlocked"`
}

// StatusResponse represents the state of a vault in API responses.
type StatusResponse struct {
	AccountID         string     `json:"account_id"`
	State             string     `json:"state"`
	Unlocked          bool       `json:"unlocked"`
	EncryptionEnabled bool       `json:"encryption_enabled"`
	LastActivity      *time.Time `json:"last_activity,omitempty"`
}

// MapStatusToResponse converts a domain status to an API response.
func MapStatusToResponse(status *vaultDomain.Status) StatusResponse {
	response := StatusResponse{
		AccountID:         status.AccountID,
		State:             status.State.String(),
		Unlocked:          status.State == vaultDomain.Unlocked,
		EncryptionEnabled: status.EncryptionEnabled,
	}
	if !status.LastActivity.IsZero() {
		lastActivity := status.LastActivity.UTC()
		response.LastActivity = &lastActivity
	}
	return response
}

// MapMetadataToDTO converts domain metadata to its JSON form.
func MapMetadataToDTO(m cryptoDomain.EncryptionMetadata) MetadataDTO {
	return MetadataDTO{
		Algorithm:     string(m.Algorithm),
		KeyDerivation: m.KeyDerivation,
		IV:            m.IV,
		Salt:          m.Salt,
		Iterations:    m.Iterations,
	}
}

// EncryptResponse contains a base64 ciphertext and the metadata needed to decrypt it.
type EncryptResponse struct {
	EncryptedData string      `json:"encrypted_data"`
	Metadata      MetadataDTO `json:"metadata"`
}

// MapEncryptedFileToResponse converts an encrypted file to an API response.
func MapEncryptedFileToResponse(file *vaultDomain.EncryptedFile) EncryptResponse {
	return EncryptResponse{
		EncryptedData: base64.StdEncoding.EncodeToString(file.Data),
		Metadata:      MapMetadataToDTO(file.Metadata),
	}
}

// DecryptResponse contains base64 plaintext.
type DecryptResponse struct {
	Data string `json:"data"`
}

// BatchEncryptResponse contains one result per request item, in request order.
type BatchEncryptResponse struct {
	Items []EncryptResponse `json:"items"`
}

// MapEncryptedFilesToBatchResponse converts a batch result to an API response.
func MapEncryptedFilesToBatchResponse(files []*vaultDomain.EncryptedFile) BatchEncryptResponse {
	items := make([]EncryptResponse, 0, len(files))
	for _, file := range files {
		items = append(items, MapEncryptedFileToResponse(file))
	}
	return BatchEncryptResponse{Items: items}
}

// StoredFileResponse describes an encrypted object in the store.
type StoredFileResponse struct {
	ObjectID string      `json:"object_id"`
	Checksum string      `json:"checksum"`
	Size     int64       `json:"size"`
	Metadata MetadataDTO `json:"metadata"`
}

// MapStoredFileToResponse converts a stored file to an API response.
func MapStoredFileToResponse(file *vaultDomain.StoredFile) StoredFileResponse {
	return StoredFileResponse{
		ObjectID: file.ObjectID,
		Checksum: file.Checksum,
		Size:     file.Size,
		Metadata: MapMetadataToDTO(file.Metadata),
	}
}

// ListFilesResponse represents a page of stored files.
type ListFilesResponse struct {
	Data []StoredFileResponse `json:"data"`
}

// MapStoredFilesToListResponse converts stored files to a list response.
func MapStoredFilesToListResponse(files []*vaultDomain.StoredFile) ListFilesResponse {
	data := make([]StoredFileResponse, 0, len(files))
	for _, file := range files {
		data = append(data, MapStoredFileToResponse(file))
	}
	return ListFilesResponse{Data: data}
}
