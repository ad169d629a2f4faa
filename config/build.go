package config

import (
	"context"
	"fmt"

	"github.com/jonwraymond/callops/faults"
	"github.com/jonwraymond/callops/incident"
	"github.com/jonwraymond/callops/monitor"
	"github.com/jonwraymond/callops/observe"
	"github.com/jonwraymond/callops/resilience"
)

// ObserveConfig maps the service, logging, and telemetry sections onto the
// observe package's configuration.
func (c *Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Service.Name,
		Version:     c.Service.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Telemetry.Tracing.Enabled,
			Exporter:  c.Telemetry.Tracing.Exporter,
			SamplePct: c.Telemetry.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Telemetry.Metrics.Enabled,
			Exporter: c.Telemetry.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Logging.Enabled,
			Level:   c.Logging.Level,
		},
	}
}

// BuildRegistry builds one invoker per configured dependency and registers
// them. onStateChange, when non-nil, is attached to every circuit breaker
// (observe.Middleware.BreakerStateHook fits here).
func (c *Config) BuildRegistry(onStateChange func(name string, from, to resilience.State)) (*resilience.Registry, error) {
	registry := resilience.NewRegistry()

	for name, dep := range c.Dependencies {
		breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             name,
			FailureThreshold: dep.Breaker.FailureThreshold,
			RecoveryTimeout:  dep.Breaker.RecoveryTimeout,
			SuccessThreshold: dep.Breaker.SuccessThreshold,
			OnStateChange:    onStateChange,
		})
		bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          name,
			MaxConcurrent: dep.Bulkhead.MaxConcurrent,
			QueueCapacity: dep.Bulkhead.QueueCapacity,
			Timeout:       dep.Bulkhead.Timeout,
		})
		retry := resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: dep.Retry.MaxAttempts,
			BaseDelay:   dep.Retry.BaseDelay,
			MaxDelay:    dep.Retry.MaxDelay,
			Multiplier:  dep.Retry.Multiplier,
			Jitter:      dep.Retry.Jitter,
		})
		timeout := resilience.NewTimeout(resilience.TimeoutConfig{
			Timeout: dep.Timeout,
		})

		opts := []resilience.InvokerOption{
			resilience.WithCircuitBreaker(breaker),
			resilience.WithBulkhead(bulkhead),
			resilience.WithRetry(retry),
			resilience.WithTimeout(timeout),
		}
		if dep.RateLimit != nil {
			opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
				Rate:  dep.RateLimit.Rate,
				Burst: dep.RateLimit.Burst,
			})))
		}

		if err := registry.Register(resilience.NewInvoker(name, opts...)); err != nil {
			return nil, fmt.Errorf("config: dependency %s: %w", name, err)
		}
	}

	return registry, nil
}

// matchFields builds a predicate from the declarative code/dependency/class
// match fields. Empty fields match everything.
func matchFields(code, dependency, class string) func(monitor.ErrorEvent) bool {
	var preds []func(monitor.ErrorEvent) bool
	if code != "" {
		preds = append(preds, monitor.MatchCode(faults.Code(code)))
	}
	if dependency != "" {
		preds = append(preds, monitor.MatchDependency(dependency))
	}
	if class != "" {
		preds = append(preds, monitor.MatchClass(faults.ParseClass(class)))
	}
	if len(preds) == 0 {
		return nil
	}
	return monitor.And(preds...)
}

// BuildRules maps the alerts section onto monitor alert rules.
func (c *Config) BuildRules() []monitor.AlertRule {
	rules := make([]monitor.AlertRule, 0, len(c.Alerts))
	for _, a := range c.Alerts {
		rules = append(rules, monitor.AlertRule{
			Name:      a.Name,
			Severity:  a.Severity,
			Predicate: matchFields(a.Code, a.Dependency, a.Class),
			Threshold: a.Threshold,
			Window:    a.Window,
			Cooldown:  a.Cooldown,
		})
	}
	return rules
}

// Hooks supplies the caller-owned effects for scale and failover actions.
type Hooks struct {
	Scale    func(ctx context.Context, dependency string) error
	Failover func(ctx context.Context, dependency string) error
}

// BuildResponses maps the incidents section onto incident responses, wiring
// built-in actions against the given registry, emitter, and hooks.
func (c *Config) BuildResponses(registry *resilience.Registry, emitter observe.Emitter, hooks Hooks) ([]incident.Response, error) {
	responses := make([]incident.Response, 0, len(c.Incidents))
	for _, r := range c.Incidents {
		actions := make([]incident.Action, 0, len(r.Actions))
		for _, name := range r.Actions {
			switch name {
			case "alert":
				actions = append(actions, &incident.AlertAction{Emitter: emitter})
			case "open-circuit":
				actions = append(actions, &incident.OpenCircuitAction{Registry: registry})
			case "scale":
				actions = append(actions, &incident.ScaleAction{Hook: hooks.Scale})
			case "failover":
				actions = append(actions, &incident.FailoverAction{Hook: hooks.Failover})
			default:
				return nil, fmt.Errorf("config: incidents.%s: unknown action %q", r.Name, name)
			}
		}
		responses = append(responses, incident.Response{
			Name:     r.Name,
			Match:    matchFields(r.Code, r.Dependency, r.Class),
			Severity: incident.ParseSeverity(r.Severity),
			Actions:  actions,
		})
	}
	return responses, nil
}
