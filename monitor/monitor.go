package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonwraymond/callops/execctx"
	"github.com/jonwraymond/callops/faults"
	"github.com/jonwraymond/callops/observe"
)

// ErrorEvent is one observed dependency failure.
type ErrorEvent struct {
	// Code is the fault code of the failure.
	Code faults.Code

	// Dependency is the downstream dependency that failed.
	Dependency string

	// Class is the fault classification.
	Class faults.Class

	// CorrelationID ties the failure back to the originating request.
	CorrelationID string

	// At is when the failure occurred. Zero means "now".
	At time.Time

	// Err is the underlying error.
	Err error
}

// EventFromError builds an ErrorEvent from a failed dependency call, reading
// the classification from the error and the correlation id from the context.
func EventFromError(ctx context.Context, dependency string, err error) ErrorEvent {
	return ErrorEvent{
		Code:          faults.CodeOf(err),
		Dependency:    dependency,
		Class:         faults.ClassOf(err),
		CorrelationID: execctx.CorrelationID(ctx),
		Err:           err,
	}
}

// AlertRule describes when sustained errors should raise an alert.
type AlertRule struct {
	// Name identifies the rule in alert events. Required.
	Name string

	// Severity is attached to emitted alerts (e.g. "low", "high", "critical").
	Severity string

	// Predicate selects the events this rule counts.
	// Default: match every event.
	Predicate func(ErrorEvent) bool

	// Threshold is the matching error count within Window that fires the rule.
	// Default: 1
	Threshold int

	// Window is the sliding window the threshold is evaluated over.
	// Default: 1 minute
	Window time.Duration

	// Cooldown suppresses re-firing for this long after the rule fires.
	// Default: 0 (no suppression)
	Cooldown time.Duration
}

// MatchCode returns a predicate matching events with the given fault code.
func MatchCode(code faults.Code) func(ErrorEvent) bool {
	return func(ev ErrorEvent) bool { return ev.Code == code }
}

// MatchDependency returns a predicate matching events for the given dependency.
func MatchDependency(dependency string) func(ErrorEvent) bool {
	return func(ev ErrorEvent) bool { return ev.Dependency == dependency }
}

// MatchClass returns a predicate matching events with the given classification.
func MatchClass(class faults.Class) func(ErrorEvent) bool {
	return func(ev ErrorEvent) bool { return ev.Class == class }
}

// And combines predicates; all must match.
func And(preds ...func(ErrorEvent) bool) func(ErrorEvent) bool {
	return func(ev ErrorEvent) bool {
		for _, p := range preds {
			if !p(ev) {
				return false
			}
		}
		return true
	}
}

// Firing is a fired rule delivered to the OnAlert callback.
type Firing struct {
	Rule  AlertRule
	Event ErrorEvent
	Count int
}

// MonitorConfig configures the error monitor.
type MonitorConfig struct {
	// Rules are the alert rules evaluated on every recorded error.
	Rules []AlertRule

	// Emitter publishes alert events. Optional; nil means no emission.
	Emitter observe.Emitter

	// OnAlert is called after a rule fires, outside the monitor's lock.
	// This is how the incident manager subscribes. Optional.
	OnAlert func(ctx context.Context, firing Firing)

	// Now overrides the clock. Used in tests.
	Now func() time.Time
}

type ruleState struct {
	rule      AlertRule
	lastFired time.Time
	fired     int64
}

type eventKey struct {
	code       faults.Code
	dependency string
}

// Monitor tracks error frequency per (code, dependency) pair and fires alert
// rules on sustained patterns.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: recording is best-effort and never fails the caller.
//   - No background goroutines; pruning happens inline on Record.
type Monitor struct {
	mu        sync.Mutex
	rules     []*ruleState
	events    map[eventKey][]time.Time
	maxWindow time.Duration
	recorded  int64

	emitter observe.Emitter
	onAlert func(ctx context.Context, firing Firing)
	now     func() time.Time
}

// NewMonitor creates an error monitor with the given configuration.
func NewMonitor(config MonitorConfig) *Monitor {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	m := &Monitor{
		events:  make(map[eventKey][]time.Time),
		emitter: config.Emitter,
		onAlert: config.OnAlert,
		now:     now,
	}
	for _, rule := range config.Rules {
		m.AddRule(rule)
	}
	return m
}

// AddRule registers an alert rule. Rules with an empty name are rejected.
func (m *Monitor) AddRule(rule AlertRule) error {
	if rule.Name == "" {
		return ErrMissingRuleName
	}

	// Apply defaults
	if rule.Predicate == nil {
		rule.Predicate = func(ErrorEvent) bool { return true }
	}
	if rule.Threshold <= 0 {
		rule.Threshold = 1
	}
	if rule.Window <= 0 {
		rule.Window = time.Minute
	}
	if rule.Cooldown < 0 {
		rule.Cooldown = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rs := range m.rules {
		if rs.rule.Name == rule.Name {
			return ErrDuplicateRule
		}
	}

	m.rules = append(m.rules, &ruleState{rule: rule})
	if rule.Window > m.maxWindow {
		m.maxWindow = rule.Window
	}
	return nil
}

// RuleNames returns the registered rule names in registration order.
func (m *Monitor) RuleNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.rules))
	for i, rs := range m.rules {
		names[i] = rs.rule.Name
	}
	return names
}

// Record registers one dependency failure and evaluates every alert rule
// against it. Fired rules emit alert events and invoke the OnAlert callback.
func (m *Monitor) Record(ctx context.Context, ev ErrorEvent) {
	if ev.At.IsZero() {
		ev.At = m.now()
	}
	if ev.Class == faults.Unknown && ev.Err != nil {
		ev.Class = faults.ClassOf(ev.Err)
	}
	if ev.Code == "" && ev.Err != nil {
		ev.Code = faults.CodeOf(ev.Err)
	}

	firings := m.record(ev)

	// Emit and notify outside the lock so callbacks may call back in.
	for _, f := range firings {
		if m.emitter != nil {
			m.emitter.EmitAlert(ctx, observe.AlertEvent{
				RuleName:   f.Rule.Name,
				Severity:   f.Rule.Severity,
				Dependency: ev.Dependency,
				ErrorCode:  string(ev.Code),
				Count:      f.Count,
				Window:     f.Rule.Window,
			})
		}
		if m.onAlert != nil {
			m.onAlert(ctx, f)
		}
	}
}

func (m *Monitor) record(ev ErrorEvent) []Firing {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recorded++

	key := eventKey{code: ev.Code, dependency: ev.Dependency}
	window := insertOrdered(m.events[key], ev.At)

	// Windows are evaluated against the newest timestamp, which is the event
	// time except when the event arrived backdated.
	newest := window[len(window)-1]

	// Prune to the widest registered window; older timestamps can never
	// contribute to any rule.
	cutoff := newest.Add(-m.maxWindow)
	for len(window) > 0 && window[0].Before(cutoff) {
		window = window[1:]
	}
	m.events[key] = window

	var firings []Firing
	for _, rs := range m.rules {
		if !rs.rule.Predicate(ev) {
			continue
		}

		count := countSince(window, newest.Add(-rs.rule.Window))
		if count < rs.rule.Threshold {
			continue
		}

		if !rs.lastFired.IsZero() && newest.Sub(rs.lastFired) < rs.rule.Cooldown {
			continue
		}

		rs.lastFired = newest
		rs.fired++
		firings = append(firings, Firing{Rule: rs.rule, Event: ev, Count: count})
	}
	return firings
}

// insertOrdered inserts ts into the time-ordered window. Event timestamps are
// caller-supplied, so a backdated event may arrive after newer ones.
func insertOrdered(window []time.Time, ts time.Time) []time.Time {
	i := sort.Search(len(window), func(j int) bool { return window[j].After(ts) })
	window = append(window, time.Time{})
	copy(window[i+1:], window[i:])
	window[i] = ts
	return window
}

// countSince returns how many timestamps are at or after the cutoff. The
// window is ordered, so walk back from the newest end.
func countSince(window []time.Time, cutoff time.Time) int {
	count := 0
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Before(cutoff) {
			break
		}
		count++
	}
	return count
}

// ErrorCount returns the number of recorded errors for the (code, dependency)
// pair within the given window, ending now.
func (m *Monitor) ErrorCount(code faults.Code, dependency string, window time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := eventKey{code: code, dependency: dependency}
	return countSince(m.events[key], m.now().Add(-window))
}

// MonitorMetrics is a snapshot of monitor counters.
type MonitorMetrics struct {
	Recorded   int64
	RuleFiring map[string]int64
}

// Metrics returns a snapshot of recorded errors and per-rule firing counts.
func (m *Monitor) Metrics() MonitorMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	firing := make(map[string]int64, len(m.rules))
	for _, rs := range m.rules {
		firing[rs.rule.Name] = rs.fired
	}
	return MonitorMetrics{
		Recorded:   m.recorded,
		RuleFiring: firing,
	}
}
