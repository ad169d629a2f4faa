package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/callops/faults"
)

// RetryConfig configures retry behavior. The configuration is immutable once
// constructed and shared read-only across concurrent invocations.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// Jitter scales each delay by a uniform random factor in [0.5, 1.0] to
	// avoid synchronized retry storms across many callers.
	// Default: false
	Jitter bool

	// RetryIf determines whether an error should trigger a retry.
	// Default: retryable classifications (Transient/Systemic) and per-attempt
	// timeouts. Fast-fail and deadline errors are never retried.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry wraps an operation with bounded retry and backoff.
type Retry struct {
	config RetryConfig
}

// DefaultRetryIf is the default retry predicate: classified Transient and
// Systemic faults and per-attempt timeouts are retried; Permanent and
// Business faults, fast-fail rejections, and expired deadlines are not.
func DefaultRetryIf(err error) bool {
	if IsFastFail(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrOperationTimeout) {
		return true
	}
	return faults.IsRetryable(err)
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = DefaultRetryIf
	}

	return &Retry{config: config}
}

// Execute runs the operation with retry. Non-retryable errors propagate on
// first occurrence; exhaustion returns a *MaxRetriesError wrapping the last
// error. The context deadline bounds total elapsed time: an expired deadline
// aborts the loop instead of starting another backoff sleep.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		delay := r.delayFor(attempt)
		// A fault's retry_after is a floor on the backoff.
		if ra := faults.RetryAfterOf(err); ra > delay {
			delay = ra
		}

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, err, delay)
		}

		// Abort mid-backoff when the deadline arrives; never sleep past it.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &MaxRetriesError{Attempts: r.config.MaxAttempts, Last: lastErr}
}

// delayFor computes min(BaseDelay·Multiplier^attempt, MaxDelay), optionally
// scaled by a uniform jitter factor in [0.5, 1.0].
func (r *Retry) delayFor(attempt int) time.Duration {
	delay := time.Duration(float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt)))
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		factor := 0.5 + rand.Float64()*0.5
		delay = time.Duration(float64(delay) * factor)
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
