package middlewares

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowWithinWindow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("1.2.3.4/api/auth/signin"), "attempt %d", i+1)
	}
	assert.False(t, limiter.Allow("1.2.3.4/api/auth/signin"))

	// A different key has its own window.
	assert.True(t, limiter.Allow("5.6.7.8/api/auth/signin"))
}

func TestRateLimiterWindowResets(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	base := time.Now()
	limiter.now = func() time.Time { return base }

	assert.True(t, limiter.Allow("k"))
	assert.False(t, limiter.Allow("k"))

	limiter.now = func() time.Time { return base.Add(time.Minute) }
	assert.True(t, limiter.Allow("k"))
}

func TestRateLimiterSweep(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	base := time.Now()
	limiter.now = func() time.Time { return base }

	limiter.Allow("stale")
	limiter.now = func() time.Time { return base.Add(30 * time.Second) }
	limiter.Allow("fresh")

	limiter.now = func() time.Time { return base.Add(70 * time.Second) }
	limiter.Sweep()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.entries, "stale")
	assert.Contains(t, limiter.entries, "fresh")
}
