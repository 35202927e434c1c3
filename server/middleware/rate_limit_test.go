package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(RateLimit{Interval: time.Hour, Burst: 2, MaxKeys: 10})

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	// Bucket exhausted, refill is an hour away.
	assert.False(t, rl.Allow("1.2.3.4"))

	// Keys are independent.
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiterKeyCap(t *testing.T) {
	rl := NewRateLimiter(RateLimit{Interval: time.Hour, Burst: 1, MaxKeys: 2})

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.False(t, rl.Allow("a"))

	// Third key resets the map; "a" gets a fresh bucket afterwards.
	assert.True(t, rl.Allow("c"))
	assert.True(t, rl.Allow("a"))
}
