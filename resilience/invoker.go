package resilience

import (
	"context"
)

// Operation is the only contract imposed on wrapped business logic: a callable
// that either succeeds or returns an error carrying (or inferable to) a fault
// classification.
type Operation func(context.Context) error

// Invoker composes the resilience stages for calls to one named dependency.
//
// The composition order is fixed and load-shedding-first:
//
//	RateLimiter (optional, outermost) → Bulkhead → CircuitBreaker → Retry → Timeout → operation
//
// Bulkhead and circuit breaker checks are cheap fast-fails that reject
// overload before any retry or backoff work is scheduled, so retries can
// never amplify load on a saturated or failing dependency.
type Invoker struct {
	dependency  string
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
	breaker     *CircuitBreaker
	retry       *Retry
	timeout     *Timeout
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// NewInvoker creates an invoker for the named dependency. Stages that are not
// configured are skipped; the relative order of the configured stages never
// changes.
func NewInvoker(dependency string, opts ...InvokerOption) *Invoker {
	inv := &Invoker{dependency: dependency}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// WithRateLimiter adds a client-side rate limiter as the outermost stage.
func WithRateLimiter(rl *RateLimiter) InvokerOption {
	return func(inv *Invoker) { inv.rateLimiter = rl }
}

// WithBulkhead adds bulkhead admission control.
func WithBulkhead(b *Bulkhead) InvokerOption {
	return func(inv *Invoker) { inv.bulkhead = b }
}

// WithCircuitBreaker adds a circuit breaker.
func WithCircuitBreaker(cb *CircuitBreaker) InvokerOption {
	return func(inv *Invoker) { inv.breaker = cb }
}

// WithRetry adds a retry policy.
func WithRetry(r *Retry) InvokerOption {
	return func(inv *Invoker) { inv.retry = r }
}

// WithTimeout adds a per-attempt timeout guard.
func WithTimeout(t *Timeout) InvokerOption {
	return func(inv *Invoker) { inv.timeout = t }
}

// Dependency returns the name of the guarded dependency.
func (inv *Invoker) Dependency() string { return inv.dependency }

// Breaker returns the invoker's circuit breaker, or nil.
func (inv *Invoker) Breaker() *CircuitBreaker { return inv.breaker }

// Bulkhead returns the invoker's bulkhead, or nil.
func (inv *Invoker) Bulkhead() *Bulkhead { return inv.bulkhead }

// Execute runs the operation through the configured stages in the fixed
// order. Fast-fail rejections (ErrBulkheadFull, ErrCircuitOpen,
// ErrRateLimitExceeded) are returned without invoking the operation.
func (inv *Invoker) Execute(ctx context.Context, op Operation) error {
	execute := op

	// Per-attempt timeout guard (innermost).
	if inv.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return inv.timeout.Execute(ctx, inner)
		}
	}

	// Retry loop around the guarded attempt.
	if inv.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return inv.retry.Execute(ctx, inner)
		}
	}

	// Circuit breaker ahead of the retry loop: an open circuit rejects the
	// whole call, and one call counts once against the breaker no matter how
	// many attempts ran inside.
	if inv.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return inv.breaker.Execute(ctx, inner)
		}
	}

	// Bulkhead admission ahead of everything that can block or re-attempt.
	if inv.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			if err := inv.bulkhead.Acquire(ctx); err != nil {
				return err
			}
			defer inv.bulkhead.Release()
			return inner(ctx)
		}
	}

	// Rate limiter outermost.
	if inv.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return inv.rateLimiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
