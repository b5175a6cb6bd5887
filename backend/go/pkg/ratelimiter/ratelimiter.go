// Package ratelimiter provides process-local request rate limiters.
package ratelimiter

import (
	"fmt"
	"time"
)

// Supported algorithm names.
const (
	AlgorithmTokenBucket = "tokenBucket"
	AlgorithmFixedWindow = "fixedWindow"
)

// RateLimiter is the interface for rate limiting.
type RateLimiter interface {
	// Allow returns true if the request is allowed, otherwise returns false.
	Allow() bool
}

// Settings selects and parameterizes a limiter.
type Settings struct {
	Algorithm string
	// Token bucket
	Rate     float64
	Capacity int
	// Fixed window
	Limit  int
	Window time.Duration
}

// New builds the limiter named by s.Algorithm.
func New(s Settings) (RateLimiter, error) {
	switch s.Algorithm {
	case AlgorithmTokenBucket, "":
		if s.Rate <= 0 || s.Capacity <= 0 {
			return nil, fmt.Errorf("token bucket needs a positive rate and capacity, got %v/%d", s.Rate, s.Capacity)
		}
		return NewTokenBucket(s.Rate, s.Capacity), nil
	case AlgorithmFixedWindow:
		if s.Limit <= 0 || s.Window <= 0 {
			return nil, fmt.Errorf("fixed window needs a positive limit and window, got %d/%s", s.Limit, s.Window)
		}
		return NewFixedWindowCounter(s.Limit, s.Window), nil
	default:
		return nil, fmt.Errorf("unknown rate limiter algorithm %q", s.Algorithm)
	}
}
