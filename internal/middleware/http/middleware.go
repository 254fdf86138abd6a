// Package http holds gin middleware, adapted from the teacher's
// net/http middleware (internal/delivery/http/middleware/cors.go,
// logging.go) to gin's HandlerFunc shape, plus a rate limiter
// spec.md §6.1 requires that the teacher had no equivalent of.
package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"acquire-server/internal/apperrors"
	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/logger"
)

// Recovery converts a panic inside a handler into a 500 apperror
// instead of taking down the process, mirroring the teacher's
// router.Use(httpmiddleware.Recovery) wiring.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorPayload{Code: string(apperrors.CodeInternal), Message: "internal error"})
			}
		}()
		c.Next()
	}
}

// CORS adds the headers the teacher's cors.go sets, translated to
// gin's request/response API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "3600")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestLogging logs every request with the same structured fields
// (status, method, path, remote addr, duration) as the teacher's
// zap-backed LoggingMiddleware.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("remote_addr", c.ClientIP()),
			zap.Duration("duration", duration),
			zap.Int("size", c.Writer.Size()),
		}

		log := logger.Get()
		switch {
		case c.Writer.Status() >= 500:
			log.Error("http request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

// limiterStore keeps one token bucket per client identity (username
// cookie, falling back to remote IP), evicting nothing — the set of
// distinct identities in one process lifetime is small enough that a
// growing map is an acceptable tradeoff against the complexity of an
// eviction policy, per spec.md's Non-goals (no persistence/scale-out
// concerns apply here).
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

func newLimiterStore(rps float64) *limiterStore {
	return &limiterStore{limiters: make(map[string]*rate.Limiter), rps: rps}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.rps), int(s.rps))
		s.limiters[key] = l
	}
	return l
}

// RateLimit enforces spec.md §6.1's "~20 req/sec per client identity
// (IP fallback)" budget on /game/* routes. Clients that exceed it get
// 429 immediately; retry pacing is left to the client, per DESIGN.md.
func RateLimit(requestsPerSecond float64) gin.HandlerFunc {
	store := newLimiterStore(requestsPerSecond)
	return func(c *gin.Context) {
		identity, _ := c.Cookie("username")
		if identity == "" {
			identity = c.ClientIP()
		}
		if !store.get(identity).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorPayload{Code: string(apperrors.CodeRateLimited), Message: "too many requests"})
			return
		}
		c.Next()
	}
}
