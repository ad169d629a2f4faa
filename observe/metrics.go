package observe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/callops/faults"
	"github.com/jonwraymond/callops/resilience"
)

// Metrics records per-dependency call outcomes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one dependency call with duration and outcome.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordStateChange records a circuit breaker transition.
	RecordStateChange(ctx context.Context, dependency string, from, to resilience.State)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	shedCount    metric.Int64Counter
	durationHist metric.Float64Histogram
	transitions  metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"call.total",
		metric.WithDescription("Total number of dependency calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"call.errors",
		metric.WithDescription("Total number of failed dependency calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	shedCount, err := meter.Int64Counter(
		"call.shed",
		metric.WithDescription("Calls rejected fast-fail by breaker, bulkhead, or rate limit"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"call.duration_ms",
		metric.WithDescription("Dependency call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"call.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		shedCount:    shedCount,
		durationHist: durationHist,
		transitions:  transitions,
	}, nil
}

// RecordCall records metrics for one dependency call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("call.dependency", meta.Dependency),
	}
	if meta.Operation != "" {
		attrs = append(attrs, attribute.String("call.operation", meta.Operation))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)

	if err == nil {
		return
	}

	if resilience.IsFastFail(err) {
		m.shedCount.Add(ctx, 1, opt)
		return
	}

	errAttrs := attrs
	errAttrs = append(errAttrs, attribute.String("error.class", faults.ClassOf(err).String()))
	if code := faults.CodeOf(err); code != "" {
		errAttrs = append(errAttrs, attribute.String("error.code", string(code)))
	}
	if errors.Is(err, resilience.ErrOperationTimeout) {
		errAttrs = append(errAttrs, attribute.Bool("error.timeout", true))
	}
	m.errorCount.Add(ctx, 1, metric.WithAttributes(errAttrs...))
}

// RecordStateChange records one circuit breaker transition.
func (m *metricsImpl) RecordStateChange(ctx context.Context, dependency string, from, to resilience.State) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("call.dependency", dependency),
		attribute.String("breaker.from", from.String()),
		attribute.String("breaker.to", to.String()),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordStateChange(ctx context.Context, dependency string, from, to resilience.State) {
}
