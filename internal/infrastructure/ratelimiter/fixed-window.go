package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowRateLimiter counts requests per source key within fixed time
// windows. Good enough for the small HTTP surface here; the websocket path
// is not rate limited.
type FixedWindowRateLimiter struct {
	limit  int
	window time.Duration

	mu     sync.Mutex
	counts map[string]*windowCount

	cleanupTick *time.Ticker
	done        chan struct{}
}

type windowCount struct {
	count   int
	resetAt time.Time
}

func NewFixedWindowRateLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		limit:       limit,
		window:      window,
		counts:      make(map[string]*windowCount),
		cleanupTick: time.NewTicker(window),
		done:        make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// Allow reports whether the source may proceed, and if not, how long until
// its window resets.
func (rl *FixedWindowRateLimiter) Allow(source string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	wc, ok := rl.counts[source]
	if !ok || now.After(wc.resetAt) {
		rl.counts[source] = &windowCount{count: 1, resetAt: now.Add(rl.window)}
		return true, 0
	}

	if wc.count >= rl.limit {
		return false, time.Until(wc.resetAt)
	}

	wc.count++
	return true, 0
}

func (rl *FixedWindowRateLimiter) startCleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindowRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for source, wc := range rl.counts {
		if now.After(wc.resetAt) {
			delete(rl.counts, source)
		}
	}
}

func (rl *FixedWindowRateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
