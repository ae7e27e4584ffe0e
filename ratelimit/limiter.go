package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window request counter keyed by (client, endpoint).
// It is an injected component owned by the server, not package state, so
// tests can construct isolated instances. A window resets only once its
// full duration has elapsed from the window's start; brief bursts across
// a window boundary are an accepted tradeoff for simplicity.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	length  time.Duration
	now     func() time.Time
}

type window struct {
	count int
	start time.Time
}

// New creates a Limiter admitting at most max requests per window length
// for each (client, endpoint) pair.
func New(max int, length time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		max:     max,
		length:  length,
		now:     time.Now,
	}
}

// Allow records a request for the (client, endpoint) pair and reports
// whether it is admitted. The check and increment happen under one lock,
// so concurrent requests from the same client never observe a stale count.
func (l *Limiter) Allow(clientKey, endpointKey string) bool {
	key := clientKey + "|" + endpointKey
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.length {
		l.windows[key] = &window{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= l.max
}

// Reset clears all counters. It exists for tests and operational tooling
// and is never called on the request path.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*window)
}
