package api

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// loginRateLimiter throttles login attempts per client IP using a fixed
// window. Expired entries are swept opportunistically from allow, at most once
// per window, so no background goroutine is needed.
type loginRateLimiter struct {
	limit     int
	window    time.Duration
	entries   sync.Map     // ip -> *rateEntry
	lastSweep atomic.Int64 // unix nanos of the last cleanup pass
}

type rateEntry struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

func newLoginRateLimiter(limit int, window time.Duration) *loginRateLimiter {
	return &loginRateLimiter{limit: limit, window: window}
}

// allow reports whether a login attempt from ip may proceed. When denied it
// also returns the number of seconds until the window resets.
func (rl *loginRateLimiter) allow(ip string) (bool, int) {
	now := time.Now()
	rl.maybeSweep(now)

	v, _ := rl.entries.LoadOrStore(ip, &rateEntry{windowStart: now})
	e := v.(*rateEntry)

	e.mu.Lock()
	defer e.mu.Unlock()

	if now.Sub(e.windowStart) >= rl.window {
		e.windowStart = now
		e.count = 0
	}

	if e.count >= rl.limit {
		retryAfter := int(rl.window.Seconds() - now.Sub(e.windowStart).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	e.count++
	return true, 0
}

// cleanup drops entries whose window has fully expired.
func (rl *loginRateLimiter) cleanup() {
	now := time.Now()
	rl.entries.Range(func(key, value interface{}) bool {
		e := value.(*rateEntry)
		e.mu.Lock()
		expired := now.Sub(e.windowStart) >= rl.window
		e.mu.Unlock()
		if expired {
			rl.entries.Delete(key)
		}
		return true
	})
}

// maybeSweep runs cleanup if a full window has passed since the last sweep.
// The compare-and-swap keeps concurrent callers from sweeping twice.
func (rl *loginRateLimiter) maybeSweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < rl.window.Nanoseconds() {
		return
	}
	if rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		rl.cleanup()
	}
}

// withLoginRateLimit wraps a login handler with per-IP throttling.
func withLoginRateLimit(rl *loginRateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := rl.allow(clientIP(r))
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many login attempts, try again later")
			return
		}
		next(w, r)
	}
}
