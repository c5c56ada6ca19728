package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/allisson/filevault/internal/vault/usecase/mocks"
)

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*VaultHandler, *mocks.MockVaultUseCase, *mocks.MockFileUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	vaultUseCase := &mocks.MockVaultUseCase{}
	fileUseCase := &mocks.MockFileUseCase{}
	t.Cleanup(func() {
		vaultUseCase.AssertExpectations(t)
		fileUseCase.AssertExpectations(t)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewVaultHandler(vaultUseCase, fileUseCase, logger), vaultUseCase, fileUseCase
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			bodyReader = bytes.NewReader([]byte(raw))
		} else {
			bodyBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(bodyBytes)
		}
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func accountParams(accountID string, extra ...gin.Param) gin.Params {
	return append(gin.Params{{Key: "account", Value: accountID}}, extra...)
}
