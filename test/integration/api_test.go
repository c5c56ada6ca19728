// Package integration provides end-to-end tests for the vault API against both
// PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/filevault/internal/app"
	"github.com/allisson/filevault/internal/config"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	keyExchangeDTO "github.com/allisson/filevault/internal/keyexchange/http/dto"
	"github.com/allisson/filevault/internal/testutil"
	vaultDTO "github.com/allisson/filevault/internal/vault/http/dto"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	apiToken  string
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	useAuth bool,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if useAuth {
		req.Header.Set("Authorization", "Bearer "+ctx.apiToken)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	apiToken, apiTokenHash, err := cryptoService.NewTokenService().GenerateToken()
	require.NoError(t, err, "failed to generate api token")

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		DBPingTimeout:        5 * time.Second,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		VaultKDFIterations:   100000,
		VaultIdleTimeout:     30 * time.Minute,
		VaultCipherAlgorithm: "AES-GCM",
		VaultWorkers:         2,
		StorageBucketURL:     "mem://",
		APITokenHash:         apiTokenHash,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		apiToken:  apiToken,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest releases the test server, container and database.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}
	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}
	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

var integrationDrivers = []struct {
	name     string
	dbDriver string
}{
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range integrationDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, false)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]any
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "healthy", response["status"])
			})

			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, false)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]any
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "ready", response["status"])
			})

			t.Run("03_TokenRequired", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/vaults/alice", nil, false)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})
		})
	}
}

// TestIntegration_Vault_CompleteFlow walks one account through setup, unlock,
// in-memory and stored encryption, locking and the encryption toggle.
func TestIntegration_Vault_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	const (
		account  = "integration-alice"
		password = "correct horse battery staple"
	)
	base := "/v1/vaults/" + account

	for _, tc := range integrationDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var encrypted vaultDTO.EncryptResponse
			var objectID string

			t.Run("01_StatusBeforeSetup", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, base, nil, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var status vaultDTO.StatusResponse
				require.NoError(t, json.Unmarshal(body, &status))
				assert.False(t, status.Unlocked)
				assert.True(t, status.EncryptionEnabled)
			})

			t.Run("02_EncryptWhileLocked", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, base+"/encrypt",
					vaultDTO.EncryptRequest{Data: b64("hello")}, true)
				assert.Equal(t, http.StatusLocked, resp.StatusCode)
			})

			t.Run("03_FirstUnlockSetsPassword", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, base+"/unlock",
					vaultDTO.UnlockRequest{Password: password}, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var unlock vaultDTO.UnlockResponse
				require.NoError(t, json.Unmarshal(body, &unlock))
				assert.True(t, unlock.Unlocked)
			})

			t.Run("04_EncryptDecrypt", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, base+"/encrypt",
					vaultDTO.EncryptRequest{Data: b64("quarterly numbers")}, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.NoError(t, json.Unmarshal(body, &encrypted))
				assert.Equal(t, "AES-GCM", encrypted.Metadata.Algorithm)
				assert.Equal(t, "PBKDF2-SHA256", encrypted.Metadata.KeyDerivation)
				assert.Equal(t, 100000, encrypted.Metadata.Iterations)

				resp, body = ctx.makeRequest(t, http.MethodPost, base+"/decrypt",
					vaultDTO.DecryptRequest{EncryptedData: encrypted.EncryptedData, Metadata: encrypted.Metadata}, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var decrypted vaultDTO.DecryptResponse
				require.NoError(t, json.Unmarshal(body, &decrypted))
				assert.Equal(t, b64("quarterly numbers"), decrypted.Data)
			})

			t.Run("05_BatchEncrypt", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, base+"/encrypt/batch",
					vaultDTO.BatchEncryptRequest{Items: []string{b64("a"), b64("b"), b64("c")}}, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var batch vaultDTO.BatchEncryptResponse
				require.NoError(t, json.Unmarshal(body, &batch))
				require.Len(t, batch.Items, 3)
				assert.NotEqual(t, batch.Items[0].Metadata.IV, batch.Items[1].Metadata.IV)
			})

			t.Run("06_StoredFiles", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, base+"/files",
					vaultDTO.EncryptRequest{Data: b64("stored report")}, true)
				require.Equal(t, http.StatusCreated, resp.StatusCode)

				var stored vaultDTO.StoredFileResponse
				require.NoError(t, json.Unmarshal(body, &stored))
				require.NotEmpty(t, stored.ObjectID)
				assert.Equal(t, int64(len("stored report")), stored.Size)
				objectID = stored.ObjectID

				resp, body = ctx.makeRequest(t, http.MethodGet, base+"/files/"+objectID, nil, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				var loaded vaultDTO.DecryptResponse
				require.NoError(t, json.Unmarshal(body, &loaded))
				assert.Equal(t, b64("stored report"), loaded.Data)

				resp, body = ctx.makeRequest(t, http.MethodGet, base+"/files", nil, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				var list vaultDTO.ListFilesResponse
				require.NoError(t, json.Unmarshal(body, &list))
				require.Len(t, list.Data, 1)
				assert.Equal(t, objectID, list.Data[0].ObjectID)

				resp, _ = ctx.makeRequest(t, http.MethodDelete, base+"/files/"+objectID, nil, true)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodGet, base+"/files/"+objectID, nil, true)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("07_Lock", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, base+"/lock", nil, true)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodPost, base+"/decrypt",
					vaultDTO.DecryptRequest{EncryptedData: encrypted.EncryptedData, Metadata: encrypted.Metadata}, true)
				assert.Equal(t, http.StatusLocked, resp.StatusCode)
			})

			t.Run("08_WrongPassword", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, base+"/unlock",
					vaultDTO.UnlockRequest{Password: "wrong password"}, true)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

				resp, body := ctx.makeRequest(t, http.MethodGet, base, nil, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				var status vaultDTO.StatusResponse
				require.NoError(t, json.Unmarshal(body, &status))
				assert.False(t, status.Unlocked)
			})

			t.Run("09_UnlockAgainDecryptsOldCiphertext", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, base+"/unlock",
					vaultDTO.UnlockRequest{Password: password}, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				resp, body := ctx.makeRequest(t, http.MethodPost, base+"/decrypt",
					vaultDTO.DecryptRequest{EncryptedData: encrypted.EncryptedData, Metadata: encrypted.Metadata}, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				var decrypted vaultDTO.DecryptResponse
				require.NoError(t, json.Unmarshal(body, &decrypted))
				assert.Equal(t, b64("quarterly numbers"), decrypted.Data)
			})

			t.Run("10_DisableEncryptionLocks", func(t *testing.T) {
				disabled := false
				resp, body := ctx.makeRequest(t, http.MethodPut, base+"/encryption",
					vaultDTO.SetEncryptionRequest{Enabled: &disabled}, true)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var status vaultDTO.StatusResponse
				require.NoError(t, json.Unmarshal(body, &status))
				assert.False(t, status.EncryptionEnabled)
				assert.False(t, status.Unlocked)
			})
		})
	}
}

// TestIntegration_KeyExchange_CompleteFlow covers key pair generation, RSA-OAEP
// round trips and the checksum endpoint.
func TestIntegration_KeyExchange_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t, "postgres")
	defer teardownIntegrationTest(t, ctx)

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/keypairs", nil, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var pair keyExchangeDTO.KeyPairResponse
	require.NoError(t, json.Unmarshal(body, &pair))

	resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/keypairs/encrypt",
		keyExchangeDTO.EncryptRequest{PublicKey: pair.PublicKey, Plaintext: b64("wrapped secret")}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var encrypted keyExchangeDTO.EncryptResponse
	require.NoError(t, json.Unmarshal(body, &encrypted))

	resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/keypairs/decrypt",
		keyExchangeDTO.DecryptRequest{PrivateKey: pair.PrivateKey, Ciphertext: encrypted.Ciphertext}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var decrypted keyExchangeDTO.DecryptResponse
	require.NoError(t, json.Unmarshal(body, &decrypted))
	assert.Equal(t, b64("wrapped secret"), decrypted.Plaintext)

	resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/checksum",
		keyExchangeDTO.ChecksumRequest{Data: b64("hello")}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var checksum keyExchangeDTO.ChecksumResponse
	require.NoError(t, json.Unmarshal(body, &checksum))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", checksum.Checksum)
}
