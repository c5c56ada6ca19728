package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// MaxOAEPPlaintext is the largest message RSA-2048 OAEP with SHA-256 can carry:
// 256 - 2*32 - 2 bytes.
const MaxOAEPPlaintext = cryptoDomain.RSAKeyBits/8 - 2*sha256.Size - 2

// RSAKeyExchange implements KeyExchange with RSA-OAEP (2048-bit, SHA-256).
//
// Keys cross the API as base64 DER: SubjectPublicKeyInfo for the public half and
// PKCS#8 for the private half. Each key pair is independent of any vault session.
type RSAKeyExchange struct {
	bits int
}

// NewRSAKeyExchange creates a key exchange service using 2048-bit keys.
func NewRSAKeyExchange() *RSAKeyExchange {
	return &RSAKeyExchange{bits: cryptoDomain.RSAKeyBits}
}

// GenerateKeyPair creates a fresh RSA key pair.
func (k *RSAKeyExchange) GenerateKeyPair() (cryptoDomain.KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, k.bits)
	if err != nil {
		return cryptoDomain.KeyPair{}, fmt.Errorf("%w: failed to generate key: %v", cryptoDomain.ErrKeyExchange, err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return cryptoDomain.KeyPair{}, fmt.Errorf("%w: failed to marshal public key: %v", cryptoDomain.ErrKeyExchange, err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return cryptoDomain.KeyPair{}, fmt.Errorf("%w: failed to marshal private key: %v", cryptoDomain.ErrKeyExchange, err)
	}
	defer cryptoDomain.Zero(privDER)

	return cryptoDomain.KeyPair{
		PublicKey:  base64.StdEncoding.EncodeToString(pubDER),
		PrivateKey: base64.StdEncoding.EncodeToString(privDER),
	}, nil
}

// EncryptWithPublicKey encrypts plaintext for the holder of the private key.
// Plaintext longer than MaxOAEPPlaintext is rejected with ErrPlaintextTooLarge.
func (k *RSAKeyExchange) EncryptWithPublicKey(plaintext []byte, publicKey string) ([]byte, error) {
	pub, err := parsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	if limit := pub.Size() - 2*sha256.Size - 2; len(plaintext) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", cryptoDomain.ErrPlaintextTooLarge, len(plaintext), limit)
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyExchange, err)
	}
	return ciphertext, nil
}

// DecryptWithPrivateKey decrypts ciphertext produced by EncryptWithPublicKey.
func (k *RSAKeyExchange) DecryptWithPrivateKey(ciphertext []byte, privateKey string) ([]byte, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, priv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decryption failed", cryptoDomain.ErrKeyExchange)
	}
	return plaintext, nil
}

func parsePublicKey(encoded string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not valid base64", cryptoDomain.ErrKeyExchange)
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid public key: %v", cryptoDomain.ErrKeyExchange, err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key is not RSA", cryptoDomain.ErrKeyExchange)
	}
	return pub, nil
}

func parsePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not valid base64", cryptoDomain.ErrKeyExchange)
	}
	defer cryptoDomain.Zero(der)

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key: %v", cryptoDomain.ErrKeyExchange, err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is not RSA", cryptoDomain.ErrKeyExchange)
	}
	return priv, nil
}
