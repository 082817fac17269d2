package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ptengelmann/ProfilanIQ/domain/core"
)

const requestIDKey = "requestId"

// requestID mints a request identifier, stores it in the gin context and
// echoes it in the response header.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := core.NewRequestID().String()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// bodyLimit caps request bodies at the configured byte bound. Oversized
// bodies fail during binding and surface as 400s.
func (s *Server) bodyLimit() gin.HandlerFunc {
	max := s.config.Limits.MaxBodyBytes
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}

// rateLimiter is a fixed-window per-client counter. It is the only
// back-pressure mechanism in front of the engine.
type rateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string]*windowCount
}

type windowCount struct {
	count       int
	windowStart time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &rateLimiter{
		max:    max,
		window: window,
		hits:   make(map[string]*windowCount),
	}
}

func (r *rateLimiter) allow(client string) bool {
	if r.max <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.hits[client]
	if !ok || now.Sub(entry.windowStart) > r.window {
		r.hits[client] = &windowCount{count: 1, windowStart: now}
		return true
	}
	entry.count++
	return entry.count <= r.max
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "rate limit exceeded; retry later",
				"requestId": requestIDFrom(c),
			})
			return
		}
		c.Next()
	}
}
