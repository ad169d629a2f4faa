package incident

import (
	"time"

	"github.com/jonwraymond/callops/monitor"
)

// Status is the incident lifecycle state.
type Status int

const (
	// StatusActive means the incident is open and accumulating errors.
	StatusActive Status = iota
	// StatusResolved means the incident has been closed.
	StatusResolved
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Severity orders incident impact. Higher values escalate over lower ones.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "low"
	}
}

// ParseSeverity parses a severity name. Unknown names map to low.
func ParseSeverity(s string) Severity {
	switch s {
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	case "critical":
		return SeverityCritical
	default:
		return SeverityLow
	}
}

// Incident is one tracked error pattern.
type Incident struct {
	// ID uniquely identifies the incident.
	ID string

	// Key groups reports into this incident (default "dependency:code").
	Key string

	// Severity is the current severity; it only increases while active.
	Severity Severity

	// CreatedAt is when the incident opened.
	CreatedAt time.Time

	// UpdatedAt is when the last report or transition happened.
	UpdatedAt time.Time

	// ErrorCount is the number of reports folded into this incident.
	ErrorCount int

	// Status is Active or Resolved.
	Status Status

	// ActionsTaken lists response action names in execution order.
	ActionsTaken []string
}

// clone returns a copy safe to hand to callers.
func (i *Incident) clone() *Incident {
	c := *i
	c.ActionsTaken = append([]string(nil), i.ActionsTaken...)
	return &c
}

// Response maps an error pattern to a severity and ordered actions.
type Response struct {
	// Name identifies the response in logs. Optional.
	Name string

	// Match selects the error events this response applies to.
	// Default: match every event.
	Match func(monitor.ErrorEvent) bool

	// Severity is assigned to incidents created by this response.
	Severity Severity

	// Actions run in order on creation and on escalation.
	Actions []Action
}
