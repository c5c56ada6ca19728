// Package dto provides data transfer objects for the key exchange HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// KeyPairResponse carries a freshly generated key pair. The private key is shown once.
type KeyPairResponse struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// MapKeyPairToResponse converts a domain key pair to an API response.
func MapKeyPairToResponse(pair cryptoDomain.KeyPair) KeyPairResponse {
	return KeyPairResponse{
		PublicKey:  pair.PublicKey,
		PrivateKey: pair.PrivateKey,
	}
}

// EncryptRequest encrypts a short base64 plaintext for the holder of public_key.
type EncryptRequest struct {
	PublicKey string `json:"public_key"`
	Plaintext string `json:"plaintext"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PublicKey, validation.Required, customValidation.Base64),
		validation.Field(&r.Plaintext, customValidation.Base64),
	)
}

// EncryptResponse contains the base64 RSA-OAEP ciphertext.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptRequest decrypts a base64 ciphertext with private_key.
type DecryptRequest struct {
	PrivateKey string `json:"private_key"`
	Ciphertext string `json:"ciphertext"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PrivateKey, validation.Required, customValidation.Base64),
		validation.Field(&r.Ciphertext, validation.Required, customValidation.Base64),
	)
}

// DecryptResponse contains the base64 plaintext.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}

// ChecksumRequest contains base64 data to hash.
type ChecksumRequest struct {
	Data string `json:"data"`
}

// Validate checks if the checksum request is valid.
func (r *ChecksumRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data, customValidation.Base64),
	)
}

// ChecksumResponse contains the lowercase hex SHA-256 digest.
type ChecksumResponse struct {
	Algorithm string `json:"algorithm"`
	Checksum  string `json:"checksum"`
}
