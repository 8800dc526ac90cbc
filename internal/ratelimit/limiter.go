// Package ratelimit admits calls against sliding-window budgets. A
// call is admitted when fewer than maxCalls timestamps fall inside the
// trailing window; denied calls are not recorded, so a retry storm
// cannot extend its own lockout.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until a slot frees up. Zero unless denied.
	RetryAfter time.Duration
}

// Limiter is a sliding-window call limiter. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time

	now func() time.Time // test hook
}

// New creates a limiter allowing maxCalls per window.
func New(maxCalls int, window time.Duration) *Limiter {
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
	}
}

// Admit checks the budget and records the call if admitted. Check and
// record happen under one lock so concurrent callers cannot overshoot.
func (l *Limiter) Admit() Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	if len(l.calls) >= l.maxCalls {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: l.window - now.Sub(l.calls[0]),
		}
	}
	l.calls = append(l.calls, now)
	return Decision{Allowed: true, Remaining: l.maxCalls - len(l.calls)}
}

// Remaining reports free slots without charging the limiter.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(l.now())
	return l.maxCalls - len(l.calls)
}

// evict drops timestamps that have left the trailing window.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}
