// Package ratelimit provides a sliding-window request limiter used to
// throttle calls client-side before they reach a quota-limited API.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks hits per key within a sliding window. Keys are typically
// endpoint URLs, so each endpoint gets its own budget.
type Limiter struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	window  time.Duration
	maxHits int
	now     func() time.Time
}

// NewLimiter allows maxHits per key within the given window.
func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		hits:    make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
		now:     time.Now,
	}
}

// Allow records a hit for key and reports whether it fits in the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(key)
	if len(recent) >= l.maxHits {
		return false
	}
	l.hits[key] = append(recent, l.now())
	return true
}

// Remaining reports how many hits key has left in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	left := l.maxHits - len(l.prune(key))
	if left < 0 {
		return 0
	}
	return left
}

// prune drops hits that fell out of the window. Caller holds the lock.
func (l *Limiter) prune(key string) []time.Time {
	cutoff := l.now().Add(-l.window)
	recent := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(cutoff) {
			recent = append(recent, hit)
		}
	}
	l.hits[key] = recent
	return recent
}
