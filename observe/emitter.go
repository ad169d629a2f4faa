package observe

import (
	"context"
	"time"
)

// Event categories for records consumed by external paging and notification
// pipelines.
const (
	CategoryAlert    = "alert"
	CategoryIncident = "incident"
)

// AlertEvent is one alert rule firing.
type AlertEvent struct {
	RuleName   string
	Severity   string
	Dependency string
	ErrorCode  string
	Count      int
	Window     time.Duration
	Message    string
}

// IncidentEvent is one incident lifecycle notification.
type IncidentEvent struct {
	IncidentID string
	Key        string
	Severity   string
	Status     string
	ErrorCount int
	Action     string // response action taken, when applicable
	Message    string
}

// Emitter publishes alert and incident events as structured log records.
// Emission is best-effort and never fails the caller.
type Emitter interface {
	EmitAlert(ctx context.Context, ev AlertEvent)
	EmitIncident(ctx context.Context, ev IncidentEvent)
}

// emitter writes events through a Logger.
type emitter struct {
	logger Logger
}

// NewEmitter creates an Emitter backed by the given logger.
func NewEmitter(logger Logger) Emitter {
	if logger == nil {
		logger = &noopLogger{}
	}
	return &emitter{logger: logger}
}

func (e *emitter) EmitAlert(ctx context.Context, ev AlertEvent) {
	msg := ev.Message
	if msg == "" {
		msg = "alert rule fired"
	}
	e.logger.Warn(ctx, msg,
		Field{Key: "event_category", Value: CategoryAlert},
		Field{Key: "rule_name", Value: ev.RuleName},
		Field{Key: "severity", Value: ev.Severity},
		Field{Key: "dependency", Value: ev.Dependency},
		Field{Key: "error_code", Value: ev.ErrorCode},
		Field{Key: "error_count", Value: ev.Count},
		Field{Key: "window_ms", Value: ev.Window.Milliseconds()},
	)
}

func (e *emitter) EmitIncident(ctx context.Context, ev IncidentEvent) {
	msg := ev.Message
	if msg == "" {
		msg = "incident " + ev.Status
	}
	fields := []Field{
		{Key: "event_category", Value: CategoryIncident},
		{Key: "incident_id", Value: ev.IncidentID},
		{Key: "incident_key", Value: ev.Key},
		{Key: "severity", Value: ev.Severity},
		{Key: "status", Value: ev.Status},
		{Key: "error_count", Value: ev.ErrorCount},
	}
	if ev.Action != "" {
		fields = append(fields, Field{Key: "action", Value: ev.Action})
	}
	e.logger.Error(ctx, msg, fields...)
}
