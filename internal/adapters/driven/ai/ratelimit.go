package ai

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration for model calls.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// Backoff is the pause after a rate limit error (default 10s).
	Backoff time.Duration
}

// DefaultRateLimit keeps a long watch session well under provider quotas.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 0.5, BurstSize: 2}

// defaultRateLimitBackoff is used when the provider gives no retry hint.
const defaultRateLimitBackoff = 10 * time.Second

// RateLimiter throttles model requests.
// It uses a token bucket with an extra pause after the provider reports a rate limit.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	backoff time.Duration
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter with the given configuration.
// A non-positive rate disables throttling.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultRateLimitBackoff
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		backoff: backoff,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError pauses all requests for retryAfter.
// A non-positive value uses the configured backoff.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = r.backoff
	}
	r.retryAt = time.Now().Add(retryAfter)
}

// Allow checks if a request can be made immediately without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
