package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitOptions configures a RateLimit middleware.
type RateLimitOptions struct {
	// RatePerWindow requests are allowed per Window for each key.
	RatePerWindow int
	Window        time.Duration

	// KeyFunc derives the limiter key from the request. Defaults to the
	// client IP.
	KeyFunc func(c *gin.Context) string
}

// rateLimiter keeps one token bucket per key.
type rateLimiter struct {
	limiters map[string]*rate.Limiter
	mutex    sync.Mutex
	rate     rate.Limit
	burst    int
}

func newRateLimiter(opts RateLimitOptions) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(opts.Window / time.Duration(opts.RatePerWindow)),
		burst:    opts.RatePerWindow,
	}
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}

	return limiter
}

// cleanup drops limiters that have refilled completely, so idle keys do not
// accumulate forever.
func (rl *rateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for key, limiter := range rl.limiters {
		if limiter.Tokens() >= float64(rl.burst) {
			delete(rl.limiters, key)
		}
	}
}

// RateLimit returns a middleware enforcing a per-key request ceiling.
func RateLimit(opts RateLimitOptions) gin.HandlerFunc {
	if opts.KeyFunc == nil {
		opts.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	limiter := newRateLimiter(opts)

	go func() {
		ticker := time.NewTicker(time.Minute * 10)
		defer ticker.Stop()

		for range ticker.C {
			limiter.cleanup()
		}
	}()

	return func(c *gin.Context) {
		if !limiter.getLimiter(opts.KeyFunc(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
