// Package observe provides structured logging, tracing, and metrics for
// service-to-service calls.
//
// # Logging
//
// The Logger emits one self-contained JSON record per event with stable field
// names: timestamp, level, message, correlation_id, service, and the caller's
// fields. The correlation id and actor id of the active execution context
// (execctx) are attached implicitly from the context; callers never pass them.
// Logging never fails the caller: records that cannot be serialized are
// dropped and counted, not propagated.
//
// # Events
//
// The Emitter publishes alert and incident events as structured records with
// an event_category field, for consumption by external paging and
// notification pipelines.
//
// # Telemetry
//
// The Observer wires OpenTelemetry tracing and metrics with pluggable
// exporters (otlp, prometheus, stdout). Middleware wraps a dependency call
// with a span, call metrics, and an outcome log in one step.
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "checkout",
//	    Version:     "1.4.2",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
package observe
