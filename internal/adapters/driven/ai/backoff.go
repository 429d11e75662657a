package ai

import (
	"math/rand/v2"
	"time"
)

// maxBackoff caps the delay between attempts.
const maxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter.
// The base delay doubles each attempt, with random jitter of up to 25% either way.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in the shift.
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	half := int64(backoff) / 2
	if half == 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int64N(half)) - backoff/4
	return backoff + jitter
}
