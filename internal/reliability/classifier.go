package reliability

import (
	"math/rand"
	"time"
)

// IsRetryableHTTPStatus classifies retryable HTTP status codes.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ExponentialBackoff computes a deterministic capped backoff duration.
func ExponentialBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}

// JitteredBackoff adds up to 25% random jitter on top of the capped
// exponential backoff so concurrent callers do not retry in lockstep.
func JitteredBackoff(attempt int, base, cap time.Duration) time.Duration {
	d := ExponentialBackoff(attempt, base, cap)
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}
