package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/callops/resilience"
)

// BreakerChecker reports the state of one circuit breaker. An open circuit
// means the guarded dependency is unhealthy; half-open means it is being
// probed and counts as degraded.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a health checker for the given circuit breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the checker name.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reads the breaker state.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	if c.breaker == nil {
		return Unhealthy("no circuit breaker configured", ErrCheckFailed)
	}

	metrics := c.breaker.Metrics()
	details := map[string]any{
		"state":    metrics.State.String(),
		"failures": metrics.Failures,
	}

	switch metrics.State {
	case resilience.StateOpen:
		return Unhealthy(
			fmt.Sprintf("circuit open after %d failures", metrics.Failures),
			ErrCheckFailed,
		).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}

// BulkheadCheckerConfig tunes when a bulkhead counts as degraded.
type BulkheadCheckerConfig struct {
	// SaturationThreshold is the fraction of queue capacity in use that
	// triggers degraded status. Default: 0.8
	SaturationThreshold float64
}

// BulkheadChecker reports the saturation of one bulkhead. A full wait queue
// means callers are already being rejected; a mostly-full queue is degraded.
type BulkheadChecker struct {
	name     string
	bulkhead *resilience.Bulkhead
	config   BulkheadCheckerConfig
}

// NewBulkheadChecker creates a health checker for the given bulkhead.
func NewBulkheadChecker(name string, bulkhead *resilience.Bulkhead, config ...BulkheadCheckerConfig) *BulkheadChecker {
	cfg := BulkheadCheckerConfig{SaturationThreshold: 0.8}
	if len(config) > 0 && config[0].SaturationThreshold > 0 {
		cfg = config[0]
	}
	return &BulkheadChecker{name: name, bulkhead: bulkhead, config: cfg}
}

// Name returns the checker name.
func (c *BulkheadChecker) Name() string {
	return c.name
}

// Check reads bulkhead occupancy.
func (c *BulkheadChecker) Check(ctx context.Context) Result {
	if c.bulkhead == nil {
		return Unhealthy("no bulkhead configured", ErrCheckFailed)
	}

	metrics := c.bulkhead.Metrics()
	details := map[string]any{
		"active":         metrics.Active,
		"waiting":        metrics.Waiting,
		"max_concurrent": metrics.MaxConcurrent,
		"queue_capacity": metrics.QueueCapacity,
		"rejected":       metrics.Rejected,
	}

	if metrics.QueueCapacity > 0 {
		saturation := float64(metrics.Waiting) / float64(metrics.QueueCapacity)
		if metrics.Waiting >= metrics.QueueCapacity {
			return Unhealthy("bulkhead queue full, rejecting callers", ErrCheckFailed).WithDetails(details)
		}
		if saturation >= c.config.SaturationThreshold {
			return Degraded(
				fmt.Sprintf("bulkhead queue %.0f%% full", saturation*100),
			).WithDetails(details)
		}
	} else if metrics.Active >= metrics.MaxConcurrent {
		// No queue: running at the concurrency ceiling sheds new callers.
		return Degraded("bulkhead at max concurrency").WithDetails(details)
	}

	return Healthy("bulkhead has capacity").WithDetails(details)
}

// RegisterDependencies registers breaker and bulkhead checkers for every
// dependency in the registry, named "<dependency>.breaker" and
// "<dependency>.bulkhead".
func RegisterDependencies(agg *Aggregator, registry *resilience.Registry) {
	for _, name := range registry.Names() {
		if breaker := registry.Breaker(name); breaker != nil {
			agg.Register(name+".breaker", NewBreakerChecker(name, breaker))
		}
		if bulkhead := registry.Bulkhead(name); bulkhead != nil {
			agg.Register(name+".bulkhead", NewBulkheadChecker(name, bulkhead))
		}
	}
}
