package incident

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/callops/monitor"
	"github.com/jonwraymond/callops/observe"
)

// ManagerConfig configures the incident manager.
type ManagerConfig struct {
	// Responses is the ordered pattern→response table. The first response
	// whose Match accepts the event wins. Events matching no response still
	// open a low-severity incident with no actions.
	Responses []Response

	// Emitter publishes incident lifecycle events. Optional.
	Emitter observe.Emitter

	// Logger records action failures. Optional.
	Logger observe.Logger

	// KeyFunc groups error events into incidents.
	// Default: "dependency:code".
	KeyFunc func(monitor.ErrorEvent) string

	// Now overrides the clock. Used in tests.
	Now func() time.Time
}

// Manager tracks incidents per error-pattern key and runs automated responses.
//
// Contract:
//   - Concurrency: safe for concurrent use; concurrent reports for the same
//     key create one incident and run its actions once.
//   - Errors: action failures are logged and never abort the response.
//   - Lifecycle: active incidents stay active until Resolve or ResolveQuiet.
type Manager struct {
	mu     sync.Mutex
	active map[string]*Incident // by key
	all    map[string]*Incident // by id, resolved included

	responses []Response
	emitter   observe.Emitter
	logger    observe.Logger
	keyFunc   func(monitor.ErrorEvent) string
	now       func() time.Time

	group singleflight.Group
}

// NewManager creates an incident manager with the given configuration.
func NewManager(config ManagerConfig) *Manager {
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(ev monitor.ErrorEvent) string {
			return ev.Dependency + ":" + string(ev.Code)
		}
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		active:    make(map[string]*Incident),
		all:       make(map[string]*Incident),
		responses: config.Responses,
		emitter:   config.Emitter,
		logger:    config.Logger,
		keyFunc:   keyFunc,
		now:       now,
	}
}

// Subscribe returns a monitor firing callback that reports the triggering
// event to this manager.
func (m *Manager) Subscribe() func(ctx context.Context, f monitor.Firing) {
	return func(ctx context.Context, f monitor.Firing) {
		m.Report(ctx, f.Event)
	}
}

// Report folds an error event into the incident for its key, creating the
// incident and running its response actions when none is active. Reports
// against an active incident update its error count; a report matching a
// strictly higher-severity response escalates the incident and re-runs the
// higher response's actions. Returns a snapshot of the incident.
func (m *Manager) Report(ctx context.Context, ev monitor.ErrorEvent) *Incident {
	key := m.keyFunc(ev)
	resp := m.matchResponse(ev)

	if inc := m.foldIntoActive(ctx, key, ev, resp); inc != nil {
		return inc
	}

	// No active incident: create one, deduplicating concurrent reports so
	// actions run once per key. counted marks whether this caller's report
	// reached the incident; callers that merely join another report's flight
	// receive the shared snapshot without being folded in.
	counted := false
	v, _, _ := m.group.Do(key, func() (any, error) {
		counted = true
		// A racing report may have created it after the fold check.
		if inc := m.foldIntoActive(ctx, key, ev, resp); inc != nil {
			return inc, nil
		}
		return m.create(ctx, key, ev, resp), nil
	})
	if !counted {
		if inc := m.foldIntoActive(ctx, key, ev, resp); inc != nil {
			return inc
		}
	}
	return v.(*Incident)
}

// foldIntoActive updates an active incident for the key, escalating when the
// response severity is strictly higher. Returns nil when no incident is active.
func (m *Manager) foldIntoActive(ctx context.Context, key string, ev monitor.ErrorEvent, resp Response) *Incident {
	m.mu.Lock()
	inc, ok := m.active[key]
	if !ok {
		m.mu.Unlock()
		return nil
	}

	inc.ErrorCount++
	inc.UpdatedAt = m.now()

	escalate := resp.Severity > inc.Severity
	if escalate {
		inc.Severity = resp.Severity
	}
	snapshot := inc.clone()
	m.mu.Unlock()

	if !escalate {
		return snapshot
	}

	taken := m.runActions(ctx, resp.Actions, snapshot, ev)

	m.mu.Lock()
	inc.ActionsTaken = append(inc.ActionsTaken, taken...)
	snapshot = inc.clone()
	m.mu.Unlock()

	m.emitIncident(ctx, snapshot, taken, "incident escalated")
	return snapshot
}

// create opens a new incident and runs the response actions in order.
func (m *Manager) create(ctx context.Context, key string, ev monitor.ErrorEvent, resp Response) *Incident {
	now := m.now()
	inc := &Incident{
		ID:         uuid.NewString(),
		Key:        key,
		Severity:   resp.Severity,
		CreatedAt:  now,
		UpdatedAt:  now,
		ErrorCount: 1,
		Status:     StatusActive,
	}

	m.mu.Lock()
	m.active[key] = inc
	m.all[inc.ID] = inc
	snapshot := inc.clone()
	m.mu.Unlock()

	taken := m.runActions(ctx, resp.Actions, snapshot, ev)

	m.mu.Lock()
	inc.ActionsTaken = append(inc.ActionsTaken, taken...)
	snapshot = inc.clone()
	m.mu.Unlock()

	m.emitIncident(ctx, snapshot, taken, "")
	return snapshot
}

// matchResponse returns the first response accepting the event, or a
// low-severity response with no actions when none match.
func (m *Manager) matchResponse(ev monitor.ErrorEvent) Response {
	for _, resp := range m.responses {
		if resp.Match == nil || resp.Match(ev) {
			return resp
		}
	}
	return Response{Severity: SeverityLow}
}

// runActions executes the response actions in order against a snapshot of the
// incident. Failures are logged and do not block later actions. Returns the
// names of the actions that succeeded.
func (m *Manager) runActions(ctx context.Context, actions []Action, inc *Incident, ev monitor.ErrorEvent) []string {
	var taken []string
	for _, action := range actions {
		if err := action.Execute(ctx, inc, ev); err != nil {
			if m.logger != nil {
				m.logger.Error(ctx, "incident action failed",
					observe.F("incident_id", inc.ID),
					observe.F("incident_key", inc.Key),
					observe.F("action", action.Name()),
					observe.F("error", err.Error()),
				)
			}
			continue
		}
		taken = append(taken, action.Name())
	}
	return taken
}

func (m *Manager) emitIncident(ctx context.Context, inc *Incident, taken []string, msg string) {
	if m.emitter == nil {
		return
	}
	m.emitter.EmitIncident(ctx, observe.IncidentEvent{
		IncidentID: inc.ID,
		Key:        inc.Key,
		Severity:   inc.Severity.String(),
		Status:     inc.Status.String(),
		ErrorCount: inc.ErrorCount,
		Action:     strings.Join(taken, ","),
		Message:    msg,
	})
}

// Resolve closes the incident with the given id.
func (m *Manager) Resolve(ctx context.Context, id string) (*Incident, error) {
	m.mu.Lock()
	inc, ok := m.all[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	if inc.Status == StatusResolved {
		m.mu.Unlock()
		return nil, ErrAlreadyResolved
	}

	inc.Status = StatusResolved
	inc.UpdatedAt = m.now()
	delete(m.active, inc.Key)
	snapshot := inc.clone()
	m.mu.Unlock()

	m.emitIncident(ctx, snapshot, nil, "")
	return snapshot, nil
}

// ResolveQuiet closes every active incident that has not seen a report for at
// least the idle duration. The caller drives the sweep; the manager runs no
// background goroutine. Returns the resolved incidents.
func (m *Manager) ResolveQuiet(ctx context.Context, idle time.Duration) []*Incident {
	now := m.now()

	m.mu.Lock()
	var quiet []string
	for _, inc := range m.active {
		if now.Sub(inc.UpdatedAt) >= idle {
			quiet = append(quiet, inc.ID)
		}
	}
	m.mu.Unlock()

	var resolved []*Incident
	for _, id := range quiet {
		if inc, err := m.Resolve(ctx, id); err == nil {
			resolved = append(resolved, inc)
		}
	}
	return resolved
}

// Get returns a snapshot of the incident with the given id.
func (m *Manager) Get(id string) (*Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inc, ok := m.all[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inc.clone(), nil
}

// Active returns snapshots of all active incidents, oldest first.
func (m *Manager) Active() []*Incident {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Incident, 0, len(m.active))
	for _, inc := range m.active {
		out = append(out, inc.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
