package wikipedia

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrFetchFailed covers transport failures and unexpected HTTP statuses.
	ErrFetchFailed = errors.New("wikipedia: fetch failed")
	// ErrMalformedResponse means the server answered but not in the expected shape.
	ErrMalformedResponse = errors.New("wikipedia: malformed response")
	// ErrNotFound means the requested page does not exist.
	ErrNotFound = errors.New("wikipedia: page not found")
	// ErrInvalidRequest means the language or title cannot be requested.
	ErrInvalidRequest = errors.New("wikipedia: invalid request")
)

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server's requested pause, zero when none was sent.
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func (e *RetryableError) Unwrap() error {
	return ErrFetchFailed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
