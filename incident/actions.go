package incident

import (
	"context"

	"github.com/jonwraymond/callops/monitor"
	"github.com/jonwraymond/callops/observe"
	"github.com/jonwraymond/callops/resilience"
)

// Action is one automated incident response step.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: a failed action is logged by the manager and does not block
//     later actions in the response.
type Action interface {
	// Name identifies the action in Incident.ActionsTaken.
	Name() string

	// Execute runs the response step for the incident.
	Execute(ctx context.Context, inc *Incident, ev monitor.ErrorEvent) error
}

// AlertAction pages through the observe emitter.
type AlertAction struct {
	// Emitter publishes the alert. Required.
	Emitter observe.Emitter
}

// Name returns "alert".
func (a *AlertAction) Name() string { return "alert" }

// Execute emits an alert event carrying the incident context.
func (a *AlertAction) Execute(ctx context.Context, inc *Incident, ev monitor.ErrorEvent) error {
	if a.Emitter == nil {
		return ErrNoHook
	}
	a.Emitter.EmitAlert(ctx, observe.AlertEvent{
		RuleName:   "incident-response",
		Severity:   inc.Severity.String(),
		Dependency: ev.Dependency,
		ErrorCode:  string(ev.Code),
		Count:      inc.ErrorCount,
		Message:    "incident response alert",
	})
	return nil
}

// OpenCircuitAction trips the circuit breaker guarding the failing dependency,
// shedding load while the incident is handled.
type OpenCircuitAction struct {
	// Registry resolves dependency names to breakers. Required.
	Registry *resilience.Registry
}

// Name returns "open-circuit".
func (a *OpenCircuitAction) Name() string { return "open-circuit" }

// Execute trips the breaker registered for the event's dependency.
func (a *OpenCircuitAction) Execute(ctx context.Context, inc *Incident, ev monitor.ErrorEvent) error {
	if a.Registry == nil {
		return ErrNoHook
	}
	breaker := a.Registry.Breaker(ev.Dependency)
	if breaker == nil {
		return ErrNoBreaker
	}
	breaker.Trip()
	return nil
}

// ScaleAction requests additional capacity through a caller-provided hook.
// The core does not talk to any orchestrator itself.
type ScaleAction struct {
	// Hook performs the scale request. Required.
	Hook func(ctx context.Context, dependency string) error
}

// Name returns "scale".
func (a *ScaleAction) Name() string { return "scale" }

func (a *ScaleAction) Execute(ctx context.Context, inc *Incident, ev monitor.ErrorEvent) error {
	if a.Hook == nil {
		return ErrNoHook
	}
	return a.Hook(ctx, ev.Dependency)
}

// FailoverAction redirects traffic to a backup through a caller-provided hook.
type FailoverAction struct {
	// Hook performs the failover. Required.
	Hook func(ctx context.Context, dependency string) error
}

// Name returns "failover".
func (a *FailoverAction) Name() string { return "failover" }

func (a *FailoverAction) Execute(ctx context.Context, inc *Incident, ev monitor.ErrorEvent) error {
	if a.Hook == nil {
		return ErrNoHook
	}
	return a.Hook(ctx, ev.Dependency)
}
