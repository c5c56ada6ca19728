// Package http provides HTTP handlers for RSA-OAEP key exchange and checksums.
// These routes are independent of any vault session.
package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/httputil"
	"github.com/allisson/filevault/internal/keyexchange/http/dto"
	keyExchangeUseCase "github.com/allisson/filevault/internal/keyexchange/usecase"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// KeyExchangeHandler handles HTTP requests for key pairs and checksums.
type KeyExchangeHandler struct {
	keyExchangeUseCase keyExchangeUseCase.KeyExchangeUseCase
	logger             *slog.Logger
}

// NewKeyExchangeHandler creates a new key exchange handler.
func NewKeyExchangeHandler(
	keyExchangeUseCase keyExchangeUseCase.KeyExchangeUseCase,
	logger *slog.Logger,
) *KeyExchangeHandler {
	return &KeyExchangeHandler{
		keyExchangeUseCase: keyExchangeUseCase,
		logger:             logger,
	}
}

// GenerateKeyPairHandler creates a new RSA-2048 key pair.
// POST /v1/keypairs
// Returns 201 Created. The private key is not retained by the server.
func (h *KeyExchangeHandler) GenerateKeyPairHandler(c *gin.Context) {
	pair, err := h.keyExchangeUseCase.GenerateKeyPair(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapKeyPairToResponse(pair))
}

// EncryptHandler encrypts up to 190 bytes with a public key.
// POST /v1/keypairs/encrypt
func (h *KeyExchangeHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, _ := base64.StdEncoding.DecodeString(req.Plaintext)
	defer cryptoDomain.Zero(plaintext)

	ciphertext, err := h.keyExchangeUseCase.Encrypt(c.Request.Context(), plaintext, req.PublicKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Ciphertext: base64.StdEncoding.EncodeToString(ciphertext)})
}

// DecryptHandler decrypts an RSA-OAEP ciphertext with a private key.
// POST /v1/keypairs/decrypt
func (h *KeyExchangeHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ciphertext, _ := base64.StdEncoding.DecodeString(req.Ciphertext)

	plaintext, err := h.keyExchangeUseCase.Decrypt(c.Request.Context(), ciphertext, req.PrivateKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.DecryptResponse{Plaintext: base64.StdEncoding.EncodeToString(plaintext)})
}

// ChecksumHandler returns the SHA-256 checksum of base64 data.
// POST /v1/checksum
func (h *KeyExchangeHandler) ChecksumHandler(c *gin.Context) {
	var req dto.ChecksumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	data, _ := base64.StdEncoding.DecodeString(req.Data)

	c.JSON(http.StatusOK, dto.ChecksumResponse{
		Algorithm: "SHA-256",
		Checksum:  h.keyExchangeUseCase.Checksum(c.Request.Context(), data),
	})
}
