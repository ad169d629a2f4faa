// Package resilience provides resilience patterns for service-to-service calls.
//
// The package guards calls to downstream dependencies with composable
// patterns, each process-scoped and shared by all concurrent callers:
//
//   - Circuit Breaker: stops calling a dependency once it appears to be
//     failing, protecting both caller and dependency. Only Transient and
//     Systemic fault classifications count toward the failure threshold.
//
//   - Bulkhead: bounds simultaneous use of a resource class with a bounded
//     admission queue, so exhaustion in one class cannot starve another.
//
//   - Retry: bounded attempts with exponential backoff and optional jitter,
//     driven by fault classification and the caller's deadline.
//
//   - Timeout: bounds a single attempt's wall-clock duration.
//
//   - Rate Limiter: optional client-side token bucket.
//
// # Composition
//
// Invoker composes the patterns for one named dependency in a fixed,
// load-shedding-first order: bulkhead admission, then the circuit breaker
// check, then the retry loop, with each attempt under the timeout guard.
// Fast-fail rejections never reach the operation and are never retried.
//
//	inv := resilience.NewInvoker("payments",
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
//	        Name: "payments", MaxConcurrent: 20, QueueCapacity: 10,
//	    })),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        Name: "payments", FailureThreshold: 5, RecoveryTimeout: 30 * time.Second,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, Jitter: true,
//	    })),
//	    resilience.WithTimeout(resilience.NewTimeout(resilience.TimeoutConfig{Timeout: 2 * time.Second})),
//	)
//
//	err := inv.Execute(ctx, func(ctx context.Context) error {
//	    return gateway.Charge(ctx, amount)
//	})
//	if errors.Is(err, resilience.ErrCircuitOpen) {
//	    return fallbackQuote()
//	}
//
// Invokers live in a Registry built by the composition root at startup.
package resilience
