package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/callops/resilience"
)

// Middleware wraps dependency calls with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe operation.
//   - Context: propagates context through tracing spans.
//   - Errors: errors from the wrapped operation are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an operation bound for the dependency described by meta with a
// span, call metrics, and an outcome log record.
func (m *Middleware) Wrap(meta CallMeta, op resilience.Operation) resilience.Operation {
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		err := op(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordCall(ctx, meta, duration, err)

		fields := []Field{
			{Key: "dependency", Value: meta.Dependency},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			m.logger.Error(ctx, "dependency call failed", fields...)
		} else {
			m.logger.Info(ctx, "dependency call completed", fields...)
		}

		return err
	}
}

// BreakerStateHook returns an OnStateChange callback for a circuit breaker
// that records the transition as a metric and a log record.
func (m *Middleware) BreakerStateHook() func(name string, from, to resilience.State) {
	return func(name string, from, to resilience.State) {
		ctx := context.Background()
		m.metrics.RecordStateChange(ctx, name, from, to)
		m.logger.Warn(ctx, "circuit breaker state changed",
			Field{Key: "dependency", Value: name},
			Field{Key: "from", Value: from.String()},
			Field{Key: "to", Value: to.String()},
		)
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
