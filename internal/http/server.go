// Package http provides the HTTP server, router and cross-cutting middleware of the vault API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	keyExchangeHTTP "github.com/allisson/filevault/internal/keyexchange/http"
	"github.com/allisson/filevault/internal/metrics"
	vaultHTTP "github.com/allisson/filevault/internal/vault/http"
)

// Server is the vault API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// RouterConfig holds the cross-cutting options applied by SetupRouter.
type RouterConfig struct {
	// APITokenHash is the Argon2id hash of the bearer token. Empty disables the gate.
	APITokenHash string
	TokenService cryptoService.TokenService

	UnlockRateLimitEnabled bool
	UnlockRequestsPerSec   float64
	UnlockBurst            int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// NewServer creates a new HTTP server. db backs the readiness probe and may be nil.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with health probes and the /v1 API.
func (s *Server) SetupRouter(
	cfg RouterConfig,
	vaultHandler *vaultHTTP.VaultHandler,
	keyExchangeHandler *keyExchangeHTTP.KeyExchangeHandler,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.APITokenHash != "" && cfg.TokenService != nil {
		v1.Use(TokenAuthMiddleware(cfg.TokenService, cfg.APITokenHash, s.logger))
	}

	vaults := v1.Group("/vaults/:account")
	{
		unlock := []gin.HandlerFunc{}
		if cfg.UnlockRateLimitEnabled {
			unlock = append(unlock, UnlockRateLimitMiddleware(cfg.UnlockRequestsPerSec, cfg.UnlockBurst, s.logger))
		}
		unlock = append(unlock, vaultHandler.UnlockHandler)

		vaults.POST("/unlock", unlock...)
		vaults.POST("/lock", vaultHandler.LockHandler)
		vaults.GET("", vaultHandler.StatusHandler)
		vaults.PUT("/encryption", vaultHandler.SetEncryptionHandler)
		vaults.POST("/encrypt", vaultHandler.EncryptHandler)
		vaults.POST("/encrypt/batch", vaultHandler.BatchEncryptHandler)
		vaults.POST("/decrypt", vaultHandler.DecryptHandler)
		vaults.POST("/files", vaultHandler.StoreFileHandler)
		vaults.GET("/files", vaultHandler.ListFilesHandler)
		vaults.GET("/files/:id", vaultHandler.GetFileHandler)
		vaults.DELETE("/files/:id", vaultHandler.DeleteFileHandler)
	}

	keypairs := v1.Group("/keypairs")
	{
		keypairs.POST("", keyExchangeHandler.GenerateKeyPairHandler)
		keypairs.POST("/encrypt", keyExchangeHandler.EncryptHandler)
		keypairs.POST("/decrypt", keyExchangeHandler.DecryptHandler)
	}

	v1.POST("/checksum", keyExchangeHandler.ChecksumHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the credential database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
