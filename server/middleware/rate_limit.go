// Package middleware holds HTTP middleware shared by the API routers.
package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit configures a per-key token bucket.
type RateLimit struct {
	// Interval is the refill period of one token.
	Interval time.Duration
	// Burst is the bucket capacity.
	Burst int
	// MaxKeys caps the number of tracked keys; when exceeded the whole map
	// is reset rather than evicted piecemeal.
	MaxKeys int
}

// DefaultRateLimit allows 10 requests per second with a burst of 20.
func DefaultRateLimit() RateLimit {
	return RateLimit{
		Interval: time.Second / 10,
		Burst:    20,
		MaxKeys:  4096,
	}
}

// RateLimiter throttles requests per key (typically the client IP).
type RateLimiter struct {
	mu     sync.Mutex
	config RateLimit
	limits map[string]*rate.Limiter
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(config RateLimit) *RateLimiter {
	if config.Interval <= 0 {
		config.Interval = time.Second / 10
	}
	if config.Burst <= 0 {
		config.Burst = 20
	}
	if config.MaxKeys <= 0 {
		config.MaxKeys = 4096
	}
	return &RateLimiter{
		config: config,
		limits: make(map[string]*rate.Limiter),
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}

	if len(rl.limits) >= rl.config.MaxKeys {
		rl.limits = make(map[string]*rate.Limiter)
	}

	limiter := rate.NewLimiter(rate.Every(rl.config.Interval), rl.config.Burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Wait blocks until a request is allowed for the given key.
// Returns error if the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	return rl.getLimiter(key).Wait(ctx)
}
