package middlewares

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/responses"
)

// RateLimiter is a fixed-window in-memory limiter keyed by client IP
// plus route. State lives in this process only: it resets on restart
// and does not coordinate across instances, which is fine for a
// single-instance deployment.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*windowEntry
	now     func() time.Time
}

type windowEntry struct {
	count   int
	started time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow records one attempt for key and reports whether it fits in
// the current window.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.entries[key]
	if !ok || now.Sub(entry.started) >= r.window {
		r.entries[key] = &windowEntry{count: 1, started: now}
		return true
	}
	entry.count++
	return entry.count <= r.max
}

// Sweep drops entries whose window has passed. Wired to an hourly
// cron job so the map doesn't grow with every IP that ever called.
func (r *RateLimiter) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, entry := range r.entries {
		if now.Sub(entry.started) >= r.window {
			delete(r.entries, key)
		}
	}
}

var (
	sweepMu    sync.Mutex
	sweepables []*RateLimiter
)

// RegisterSweep adds limiters to the set swept by SweepAll.
func RegisterSweep(limiters ...*RateLimiter) {
	sweepMu.Lock()
	defer sweepMu.Unlock()
	sweepables = append(sweepables, limiters...)
}

// SweepAll sweeps every registered limiter. Called from the hourly
// cron job in main.
func SweepAll() {
	sweepMu.Lock()
	defer sweepMu.Unlock()
	for _, r := range sweepables {
		r.Sweep()
	}
}

// Middleware returns a fiber handler enforcing the limit per
// IP + route.
func (r *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !r.Allow(c.IP() + c.Path()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(responses.ApiResponse{
				Status:  fiber.StatusTooManyRequests,
				Message: "Too many attempts, please try again later",
			})
		}
		return c.Next()
	}
}
