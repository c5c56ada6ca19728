package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("filevault")
	require.NoError(t, err)
	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.Meter())
	assert.Equal(t, "filevault", provider.Namespace())
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("filevault")
		require.NoError(t, err)
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{}
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}

type fixedSessionCounter struct {
	unlocked, locked int
}

func (f fixedSessionCounter) SessionCounts() (int, int) {
	return f.unlocked, f.locked
}

func TestRegisterSessionGauge(t *testing.T) {
	provider, err := NewProvider("filevault")
	require.NoError(t, err)

	err = RegisterSessionGauge(provider.MeterProvider(), provider.Namespace(), fixedSessionCounter{unlocked: 2, locked: 5})
	require.NoError(t, err)

	output := scrape(t, provider)
	assert.Regexp(t, `filevault_vault_sessions\{[^}]*state="unlocked"[^}]*\} 2`, output)
	assert.Regexp(t, `filevault_vault_sessions\{[^}]*state="locked"[^}]*\} 5`, output)
}
