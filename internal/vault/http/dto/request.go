// Package dto provides data transfer objects for the vault HTTP API.
// Binary payloads travel as standard base64 strings.
package dto

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// MaxBatchItems bounds the number of payloads in one batch encryption request.
const MaxBatchItems = 100

// UnlockRequest carries the vault password.
type UnlockRequest struct {
	Password string `json:"password"`
}

// Validate checks if the unlock request is valid.
func (r *UnlockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
	)
}

// SetEncryptionRequest turns encryption on or off for an account.
type SetEncryptionRequest struct {
	Enabled *bool `json:"enabled"`
}

// Validate checks if the set encryption request is valid.
func (r *SetEncryptionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Enabled, validation.NotNil),
	)
}

// EncryptRequest contains base64 plaintext. An empty string encrypts an empty file.
type EncryptRequest struct {
	Data string `json:"data"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data, customValidation.Base64),
	)
}

// Decode returns the plaintext bytes.
func (r *EncryptRequest) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.Data)
}

// MetadataDTO is the JSON form of an encryption metadata record.
type MetadataDTO struct {
	Algorithm     string `json:"algorithm"`
	KeyDerivation string `json:"key_derivation"`
	IV            string `json:"iv"`
	Salt          string `json:"salt"`
	Iterations    int    `json:"iterations"`
}

// Validate checks that every metadata field is present and well formed.
func (m MetadataDTO) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Algorithm,
			validation.Required,
			validation.In(string(cryptoDomain.AESGCM), string(cryptoDomain.AESCBC)),
		),
		validation.Field(&m.KeyDerivation,
			validation.Required,
			validation.In(cryptoDomain.KeyDerivationPBKDF2SHA256),
		),
		validation.Field(&m.IV, validation.Required, customValidation.Hex),
		validation.Field(&m.Salt, validation.Required, customValidation.Hex),
		validation.Field(&m.Iterations, validation.Required, validation.Min(1)),
	)
}

// ToDomain converts the DTO to an EncryptionMetadata.
func (m MetadataDTO) ToDomain() cryptoDomain.EncryptionMetadata {
	return cryptoDomain.EncryptionMetadata{
		Algorithm:     cryptoDomain.Algorithm(m.Algorithm),
		KeyDerivation: m.KeyDerivation,
		IV:            m.IV,
		Salt:          m.Salt,
		Iterations:    m.Iterations,
	}
}

// DecryptRequest contains a base64 ciphertext and the metadata produced with it.
type DecryptRequest struct {
	EncryptedData string      `json:"encrypted_data"`
	Metadata      MetadataDTO `json:"metadata"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EncryptedData, validation.Required, customValidation.Base64),
		validation.Field(&r.Metadata),
	)
}

// BatchEncryptRequest contains several base64 plaintexts encrypted under one session.
type BatchEncryptRequest struct {
	Items []string `json:"items"`
}

// Validate checks if the batch encrypt request is valid.
func (r *BatchEncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Items,
			validation.Required,
			validation.Length(1, MaxBatchItems),
			validation.Each(customValidation.Base64),
		),
	)
}

// Decode returns the plaintext of every item in order.
func (r *BatchEncryptRequest) Decode() ([][]byte, error) {
	payloads := make([][]byte, len(r.Items))
	for i, item := range r.Items {
		data, err := base64.StdEncoding.DecodeString(item)
		if err != nil {
			return nil, err
		}
		payloads[i] = data
	}
	return payloads, nil
}
