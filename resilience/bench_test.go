package resilience

import (
	"context"
	"testing"
	"time"
)

// BenchmarkCircuitBreaker_Execute_Closed measures happy path execution.
func BenchmarkCircuitBreaker_Execute_Closed(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "bench",
		FailureThreshold: 100,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkCircuitBreaker_Execute_Open measures the fast-fail path.
func BenchmarkCircuitBreaker_Execute_Open(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:            "bench",
		RecoveryTimeout: time.Hour,
	})
	cb.Trip()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkBulkhead_Execute measures uncontended admission.
func BenchmarkBulkhead_Execute(b *testing.B) {
	bh := NewBulkhead(BulkheadConfig{Name: "bench", MaxConcurrent: 100})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkBulkhead_Concurrent measures contended admission.
func BenchmarkBulkhead_Concurrent(b *testing.B) {
	bh := NewBulkhead(BulkheadConfig{Name: "bench", MaxConcurrent: 8, QueueCapacity: 1024})
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = bh.Execute(ctx, func(ctx context.Context) error {
				return nil
			})
		}
	})
}

// BenchmarkInvoker_FullStack measures the composed happy path.
func BenchmarkInvoker_FullStack(b *testing.B) {
	inv := NewInvoker("bench",
		WithBulkhead(NewBulkhead(BulkheadConfig{Name: "bench", MaxConcurrent: 100})),
		WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{Name: "bench", FailureThreshold: 100})),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})),
	)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = inv.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkRetry_DelayFor measures backoff computation.
func BenchmarkRetry_DelayFor(b *testing.B) {
	r := NewRetry(RetryConfig{BaseDelay: time.Second, Multiplier: 2, Jitter: true})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.delayFor(i % 10)
	}
}
