package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowCounter allows limit requests per window. The window restarts
// on the first request after it expires.
type FixedWindowCounter struct {
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         func() time.Time
	mutex       sync.Mutex
}

// NewFixedWindowCounter creates a new FixedWindowCounter.
func NewFixedWindowCounter(limit int, window time.Duration) *FixedWindowCounter {
	return newFixedWindowCounter(limit, window, time.Now)
}

func newFixedWindowCounter(limit int, window time.Duration, now func() time.Time) *FixedWindowCounter {
	return &FixedWindowCounter{
		limit:       limit,
		window:      window,
		windowStart: now(),
		now:         now,
	}
}

// Allow counts the request against the current window.
func (fwc *FixedWindowCounter) Allow() bool {
	fwc.mutex.Lock()
	defer fwc.mutex.Unlock()

	now := fwc.now()
	if now.After(fwc.windowStart.Add(fwc.window)) {
		fwc.windowStart = now
		fwc.count = 0
	}

	if fwc.count < fwc.limit {
		fwc.count++
		return true
	}
	return false
}
