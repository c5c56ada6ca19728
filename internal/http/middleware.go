package http

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	apperrors "github.com/allisson/filevault/internal/errors"
	"github.com/allisson/filevault/internal/httputil"
)

// CustomLoggerMiddleware logs one structured line per request.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// TokenAuthMiddleware requires "Authorization: Bearer <token>" matching the configured
// Argon2id hash. The SHA-256 digest of the last accepted token is remembered so the
// expensive hash only runs when the presented token changes.
func TokenAuthMiddleware(
	tokenService cryptoService.TokenService,
	hashedToken string,
	logger *slog.Logger,
) gin.HandlerFunc {
	var (
		mu       sync.RWMutex
		accepted []byte
	)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		digest := sha256.Sum256([]byte(plainToken))

		mu.RLock()
		known := accepted != nil && subtle.ConstantTimeCompare(accepted, digest[:]) == 1
		mu.RUnlock()

		if !known {
			if !tokenService.CompareToken(plainToken, hashedToken) {
				logger.Debug("authentication failed: invalid bearer token")
				httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
				c.Abort()
				return
			}
			mu.Lock()
			accepted = digest[:]
			mu.Unlock()
		}

		c.Next()
	}
}

// unlockRateLimiterStore holds per-account rate limiters with automatic cleanup.
type unlockRateLimiterStore struct {
	limiters sync.Map // account ID -> *unlockRateLimiterEntry
	rps      float64
	burst    int
}

type unlockRateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// UnlockRateLimitMiddleware limits unlock attempts per :account to slow down online
// password guessing. Each account gets an independent token bucket regardless of the
// client address. Rejected requests get 429 with a Retry-After header.
func UnlockRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &unlockRateLimiterStore{
		rps:   rps,
		burst: burst,
	}

	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		accountID := c.Param("account")
		limiter := store.getLimiter(accountID)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.Warn("unlock rate limit exceeded",
				slog.String("account_id", accountID),
				slog.String("client_ip", c.ClientIP()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many unlock attempts for this vault. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *unlockRateLimiterStore) getLimiter(accountID string) *rate.Limiter {
	if val, ok := s.limiters.Load(accountID); ok {
		entry := val.(*unlockRateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &unlockRateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	actual, _ := s.limiters.LoadOrStore(accountID, entry)
	return actual.(*unlockRateLimiterEntry).limiter
}

// cleanupStale drops limiters idle for more than an hour.
func (s *unlockRateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.removeIdleSince(time.Now().Add(-1 * time.Hour))
		}
	}
}

func (s *unlockRateLimiterStore) removeIdleSince(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*unlockRateLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
		}
		return true
	})
}
