package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeteredRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("filevault")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "filevault"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/v1/vaults/:account", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/v1/vaults/:account/unlock", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
	return router, provider
}

func serve(router *gin.Engine, method, path string) {
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, nil))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	router, provider := newMeteredRouter(t)

	serve(router, http.MethodGet, "/v1/vaults/alice")
	serve(router, http.MethodGet, "/v1/vaults/bob")
	serve(router, http.MethodPost, "/v1/vaults/alice/unlock")
	serve(router, http.MethodGet, "/health")
	serve(router, http.MethodGet, "/nope")

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `filevault_http_requests_total`,
		`method="GET".*path="/v1/vaults/:account".*status_code="200"`, `2`)
	assertBizMetricLine(t, output, `filevault_http_requests_total`,
		`method="POST".*path="/v1/vaults/:account/unlock".*status_code="401"`, `1`)
	assertBizMetricLine(t, output, `filevault_http_requests_total`,
		`path="unknown".*status_code="404"`, `1`)
	assertBizMetricLine(t, output, `filevault_http_request_duration_seconds_count`,
		`method="GET".*path="/v1/vaults/:account"`, `2`)

	assert.NotContains(t, output, `path="/health"`)
	assert.NotContains(t, output, "alice")
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "unknown"},
		{"vault route", "/v1/vaults/:account", "/v1/vaults/:account"},
		{"file route", "/v1/vaults/:account/files/:id", "/v1/vaults/:account/files/:id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizePath(tt.input))
		})
	}
}
