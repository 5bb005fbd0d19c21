package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vidtube/backend/internal/ratelimit"
)

// RateLimiter manages per-client token buckets for API requests
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rps int, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// getLimiter returns a rate limiter for a specific key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	limiter, exists = rl.limiters[key]
	if exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = limiter

	return limiter
}

// RateLimit limits requests per authenticated user, falling back to client IP.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		if userID, ok := GetUserID(c); ok {
			key = fmt.Sprintf("user:%s", userID)
		} else {
			key = fmt.Sprintf("ip:%s", c.ClientIP())
		}

		if !rl.getLimiter(key).Allow() {
			c.JSON(http.StatusTooManyRequests, failure{
				StatusCode: http.StatusTooManyRequests,
				Message:    "rate limit exceeded",
				Success:    false,
				Errors:     []string{},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CredentialRateLimit applies the Redis-backed window to credential
// endpoints, keyed by client IP so a brute-force source is throttled across
// instances. A limiter outage fails open.
func CredentialRateLimit(limiter *ratelimit.Limiter, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", endpoint, c.ClientIP())

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err == nil && !ok {
			c.JSON(http.StatusTooManyRequests, failure{
				StatusCode: http.StatusTooManyRequests,
				Message:    "too many attempts, try again later",
				Success:    false,
				Errors:     []string{},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
