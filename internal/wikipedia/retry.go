package wikipedia

import (
	"errors"
	"math/rand/v2"
	"time"
)

// MaxRetries is how many times a fetch is attempted when MediaWiki
// throttles or fails.
const MaxRetries = 3

// maxDelay caps any single wait. A player is polling for the game, so a
// long server-requested pause is treated as a failure after this.
const maxDelay = 20 * time.Second

// IsRetryable reports whether err came from throttling or a server error.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff is the wait before retry attempt n (0-indexed): 1s doubling per
// attempt up to maxDelay, plus up to half again as jitter.
func Backoff(attempt int) time.Duration {
	base := min(time.Second<<min(attempt, 5), maxDelay)
	return base + time.Duration(rand.Int64N(int64(base)/2))
}

// RetryDelay is the wait before retrying err. A Retry-After sent with a
// throttled response wins over Backoff, capped at maxDelay.
func RetryDelay(err error, attempt int) time.Duration {
	var retryErr *RetryableError
	if errors.As(err, &retryErr) && retryErr.RetryAfter > 0 {
		return min(retryErr.RetryAfter, maxDelay)
	}
	return Backoff(attempt)
}
