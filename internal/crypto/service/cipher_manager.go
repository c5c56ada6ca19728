package service

import (
	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// CipherManagerService implements the CipherManager interface for creating file ciphers.
type CipherManagerService struct{}

// NewCipherManager creates a new CipherManagerService.
func NewCipherManager() *CipherManagerService {
	return &CipherManagerService{}
}

// CreateCipher creates a cipher instance for the specified algorithm.
// Returns ErrInvalidKeySize if key is not 32 bytes or ErrUnsupportedAlgorithm if algorithm is unknown.
func (cm *CipherManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.AESCBC:
		return NewAESCBC(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
