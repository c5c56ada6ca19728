package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{"vault locked", vaultDomain.ErrVaultLocked, http.StatusLocked, "vault_locked"},
		{"invalid password", vaultDomain.ErrInvalidPassword, http.StatusUnauthorized, "unauthorized"},
		{"metadata mismatch", vaultDomain.ErrMetadataMismatch, http.StatusUnprocessableEntity, "decryption_failed"},
		{
			"padding error",
			fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed),
			http.StatusUnprocessableEntity,
			"decryption_failed",
		},
		{"plaintext too large", cryptoDomain.ErrPlaintextTooLarge, http.StatusUnprocessableEntity, "invalid_input"},
		{"encryption disabled", vaultDomain.ErrEncryptionDisabled, http.StatusConflict, "conflict"},
		{"not found", vaultDomain.ErrCredentialsNotFound, http.StatusNotFound, "not_found"},
		{"unauthorized sentinel", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedError, response.Error)
		})
	}
}

func TestHandleErrorGin_DecryptionDetailsHidden(t *testing.T) {
	c, w := newTestContext()

	HandleErrorGin(c, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed), nil)

	assert.NotContains(t, w.Body.String(), "padding")
}

func TestHandleErrorGin_InternalDetailsHidden(t *testing.T) {
	c, w := newTestContext()

	HandleErrorGin(c, errors.New("pq: password authentication failed"), nil)

	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestHandleErrorGin_Nil(t *testing.T) {
	c, w := newTestContext()

	HandleErrorGin(c, nil, nil)

	assert.False(t, c.Writer.Written())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()

	HandleBadRequestGin(c, errors.New("unexpected EOF"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"unexpected EOF"}`, w.Body.String())
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()

	HandleValidationErrorGin(c, errors.New("password: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"password: cannot be blank."}`, w.Body.String())
}
