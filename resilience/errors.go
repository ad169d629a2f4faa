package resilience

import (
	"errors"
	"fmt"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is a fast-fail: the dependency is presumed down and the
	// operation was not attempted. Never retried; callers should fall back.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrBulkheadFull is a fast-fail: the resource class is saturated and the
	// operation was not attempted. Never retried; callers should shed load.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrOperationTimeout is returned when a single attempt exceeds its bound.
	ErrOperationTimeout = errors.New("resilience: operation timed out")

	// ErrMaxRetries is the target for errors.Is on retry exhaustion. The
	// concrete error is a *MaxRetriesError wrapping the last attempt's error.
	ErrMaxRetries = errors.New("resilience: max retries exceeded")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")
)

// MaxRetriesError reports retry exhaustion. It wraps the last observed error.
type MaxRetriesError struct {
	// Attempts is the number of attempts performed.
	Attempts int

	// Last is the error from the final attempt.
	Last error
}

// Error returns the string representation of the error.
func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("resilience: max retries exceeded after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap returns the last attempt's error.
func (e *MaxRetriesError) Unwrap() error { return e.Last }

// Is reports true for ErrMaxRetries so callers can match without errors.As.
func (e *MaxRetriesError) Is(target error) bool { return target == ErrMaxRetries }

// IsFastFail reports whether err is a load-shedding rejection that never
// reached the operation. Retrying a fast-fail defeats its purpose.
func IsFastFail(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrBulkheadFull) ||
		errors.Is(err, ErrRateLimitExceeded)
}
