// Package health exposes the state of the resilience stack as health checks.
//
// A Checker reports Healthy, Degraded, or Unhealthy for one component. The
// built-in checkers read circuit breaker and bulkhead state: an open breaker
// means the dependency is unhealthy, a half-open breaker or a saturated
// bulkhead queue means degraded. The Aggregator combines checkers into one
// composite status, and the HTTP handlers serve the usual liveness/readiness
// endpoints.
//
// Wiring against a resilience registry:
//
//	agg := health.NewAggregator()
//	health.RegisterDependencies(agg, registry)
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
package health
