package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/allisson/go-pwdhash"
)

// TokenService issues and verifies the API bearer token. Only the Argon2id hash
// of a token is ever configured on the server.
type TokenService interface {
	// GenerateToken creates a random token and its PHC-encoded hash.
	GenerateToken() (plainToken string, hashedToken string, err error)

	// HashToken hashes an operator-chosen token.
	HashToken(plainToken string) (string, error)

	// CompareToken reports whether plainToken matches hashedToken.
	CompareToken(plainToken, hashedToken string) bool
}

type tokenService struct {
	hasher *pwdhash.PasswordHasher
}

// NewTokenService creates a TokenService using Argon2id with the Moderate policy.
func NewTokenService() TokenService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		panic(err)
	}
	return &tokenService{hasher: hasher}
}

// GenerateToken creates a 32-byte random token encoded as URL-safe base64.
func (s *tokenService) GenerateToken() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	plainToken := base64.URLEncoding.EncodeToString(raw)

	hashedToken, err := s.HashToken(plainToken)
	if err != nil {
		return "", "", err
	}
	return plainToken, hashedToken, nil
}

func (s *tokenService) HashToken(plainToken string) (string, error) {
	hashedToken, err := s.hasher.Hash([]byte(plainToken))
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return hashedToken, nil
}

func (s *tokenService) CompareToken(plainToken, hashedToken string) bool {
	ok, err := s.hasher.Verify([]byte(plainToken), hashedToken)
	if err != nil {
		return false
	}
	return ok
}
