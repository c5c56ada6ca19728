// Package http provides HTTP handlers for vault lock state, payload encryption and
// encrypted file storage. Every route is scoped by the :account URL parameter.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	"github.com/allisson/filevault/internal/httputil"
	customValidation "github.com/allisson/filevault/internal/validation"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
	"github.com/allisson/filevault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/filevault/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for vault operations.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	fileUseCase  vaultUseCase.FileUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(
	vaultUseCase vaultUseCase.VaultUseCase,
	fileUseCase vaultUseCase.FileUseCase,
	logger *slog.Logger,
) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: vaultUseCase,
		fileUseCase:  fileUseCase,
		logger:       logger,
	}
}

// accountParam returns the validated :account parameter or writes a 422.
func (h *VaultHandler) accountParam(c *gin.Context) (string, bool) {
	accountID := c.Param("account")
	if err := validation.Validate(accountID, validation.Required, customValidation.AccountID); err != nil {
		httputil.HandleValidationErrorGin(
			c,
			customValidation.WrapValidationError(fmt.Errorf("account: %w", err)),
			h.logger,
		)
		return "", false
	}
	return accountID, true
}

// bind parses and validates a JSON body or writes a 422.
func (h *VaultHandler) bind(c *gin.Context, req validation.Validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return false
	}
	return true
}

// UnlockHandler unlocks a vault. The first successful call for an account sets its password.
// POST /v1/vaults/:account/unlock
// Returns 200 with {"unlocked": true}, or 401 when the password is wrong.
func (h *VaultHandler) UnlockHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	var req dto.UnlockRequest
	if !h.bind(c, &req) {
		return
	}

	unlocked, err := h.vaultUseCase.Unlock(c.Request.Context(), accountID, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !unlocked {
		h.logger.Warn("unlock rejected", slog.String("account_id", accountID))
		c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
			Error:   "invalid_password",
			Message: vaultDomain.ErrInvalidPassword.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.UnlockResponse{Unlocked: true})
}

// LockHandler locks a vault and discards its key.
// POST /v1/vaults/:account/lock
func (h *VaultHandler) LockHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	if err := h.vaultUseCase.Lock(c.Request.Context(), accountID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// StatusHandler reports the lock state and encryption flag of a vault.
// GET /v1/vaults/:account
func (h *VaultHandler) StatusHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	status, err := h.vaultUseCase.Status(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatusToResponse(status))
}

// SetEncryptionHandler turns encryption on or off. The vault is locked either way.
// PUT /v1/vaults/:account/encryption
func (h *VaultHandler) SetEncryptionHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	var req dto.SetEncryptionRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.vaultUseCase.SetEncryptionEnabled(ctx, accountID, *req.Enabled); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status, err := h.vaultUseCase.Status(ctx, accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatusToResponse(status))
}

// EncryptHandler encrypts a base64 payload under the unlocked vault key.
// POST /v1/vaults/:account/encrypt
func (h *VaultHandler) EncryptHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	var req dto.EncryptRequest
	if !h.bind(c, &req) {
		return
	}

	plaintext, err := req.Decode()
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 data: %w", err), h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	file, err := h.vaultUseCase.EncryptFile(c.Request.Context(), accountID, plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEncryptedFileToResponse(file))
}

// DecryptHandler decrypts a base64 ciphertext with its metadata.
// POST /v1/vaults/:account/decrypt
func (h *VaultHandler) DecryptHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	var req dto.DecryptRequest
	if !h.bind(c, &req) {
		return
	}

	ciphertext, err := base64.StdEncoding.DecodeString(req.EncryptedData)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 encrypted_data: %w", err), h.logger)
		return
	}

	plaintext, err := h.vaultUseCase.DecryptFile(
		c.Request.Context(),
		accountID,
		ciphertext,
		req.Metadata.ToDomain(),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.DecryptResponse{Data: base64.StdEncoding.EncodeToString(plaintext)})
}

// BatchEncryptHandler encrypts several payloads in parallel under one unlocked session.
// POST /v1/vaults/:account/encrypt/batch
func (h *VaultHandler) BatchEncryptHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	var req dto.BatchEncryptRequest
	if !h.bind(c, &req) {
		return
	}

	payloads, err := req.Decode()
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 item: %w", err), h.logger)
		return
	}
	defer func() {
		for _, p := range payloads {
			cryptoDomain.Zero(p)
		}
	}()

	files, err := h.vaultUseCase.EncryptFiles(c.Request.Context(), accountID, payloads)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEncryptedFilesToBatchResponse(files))
}

// StoreFileHandler encrypts a payload and writes it to the object store.
// POST /v1/vaults/:account/files
// Returns 201 Created with the object ID and plaintext checksum.
func (h *VaultHandler) StoreFileHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	var req dto.EncryptRequest
	if !h.bind(c, &req) {
		return
	}

	plaintext, err := req.Decode()
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 data: %w", err), h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	stored, err := h.fileUseCase.Store(c.Request.Context(), accountID, plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapStoredFileToResponse(stored))
}

// GetFileHandler reads, decrypts and checksum-verifies a stored object.
// GET /v1/vaults/:account/files/:id
func (h *VaultHandler) GetFileHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	plaintext, err := h.fileUseCase.Load(c.Request.Context(), accountID, c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.DecryptResponse{Data: base64.StdEncoding.EncodeToString(plaintext)})
}

// DeleteFileHandler removes a stored object.
// DELETE /v1/vaults/:account/files/:id
func (h *VaultHandler) DeleteFileHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	if err := h.fileUseCase.Delete(c.Request.Context(), accountID, c.Param("id")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListFilesHandler lists stored objects with offset/limit pagination.
// GET /v1/vaults/:account/files?offset=0&limit=50
func (h *VaultHandler) ListFilesHandler(c *gin.Context) {
	accountID, ok := h.accountParam(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	files, err := h.fileUseCase.List(c.Request.Context(), accountID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStoredFilesToListResponse(files))
}
