package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// AESCBCCipher implements Cipher using AES-256-CBC with PKCS#7 padding.
//
// CBC is not authenticated. A wrong key or a modified ciphertext is usually caught by
// the padding check, but roughly one in 256 corruptions still unpads cleanly and
// yields garbage. Callers that need tamper detection should compare the plaintext
// checksum or prefer AES-GCM. The aad argument is ignored.
type AESCBCCipher struct {
	block cipher.Block
}

// NewAESCBC creates a new AES-256-CBC cipher. The key must be exactly 32 bytes.
func NewAESCBC(key []byte) (*AESCBCCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &AESCBCCipher{block: block}, nil
}

// Algorithm returns AES-CBC.
func (c *AESCBCCipher) Algorithm() cryptoDomain.Algorithm {
	return cryptoDomain.AESCBC
}

// Encrypt pads plaintext and encrypts it under a fresh random 16-byte IV.
// Empty plaintext produces exactly one block of padding.
func (c *AESCBCCipher) Encrypt(plaintext, _ []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, cryptoDomain.CBCIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)
	cryptoDomain.Zero(padded)

	return ciphertext, iv, nil
}

// Decrypt decrypts and unpads ciphertext.
func (c *AESCBCCipher) Decrypt(ciphertext, iv, _ []byte) ([]byte, error) {
	if len(iv) != cryptoDomain.CBCIVSize {
		return nil, fmt.Errorf("%w: invalid iv size %d", cryptoDomain.ErrDecryptionFailed, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a multiple of the block size", cryptoDomain.ErrDecryptionFailed)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		cryptoDomain.Zero(padded)
		return nil, err
	}
	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// pkcs7Unpad checks every padding byte without branching on their values.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed)
	}

	n := int(data[len(data)-1])
	good := subtle.ConstantTimeLessOrEq(1, n) & subtle.ConstantTimeLessOrEq(n, blockSize)

	tail := data[len(data)-blockSize:]
	for i := 0; i < blockSize; i++ {
		inPad := subtle.ConstantTimeLessOrEq(blockSize-i, n)
		match := subtle.ConstantTimeByteEq(tail[i], byte(n))
		good &= subtle.ConstantTimeSelect(inPad, match, 1)
	}

	if good != 1 {
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed)
	}
	return data[:len(data)-n], nil
}
