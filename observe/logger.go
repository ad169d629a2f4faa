package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/callops/execctx"
)

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// structuredLogger writes one JSON record per event. Field names are stable
// and additive: timestamp, level, message, correlation_id, service, and
// actor_id are never renamed or removed within a major version.
type structuredLogger struct {
	service   string
	level     LogLevel
	writer    io.Writer
	mu        *sync.Mutex
	dropped   *int64
	baseAttrs map[string]any
}

// NewLogger creates a structured logger for the named service, writing to stderr.
func NewLogger(service, level string) Logger {
	return NewLoggerWithWriter(service, level, os.Stderr)
}

// NewLoggerWithWriter creates a structured logger with a custom writer.
func NewLoggerWithWriter(service, level string, w io.Writer) Logger {
	return &structuredLogger{
		service:   service,
		level:     ParseLogLevel(level),
		writer:    w,
		mu:        &sync.Mutex{},
		dropped:   new(int64),
		baseAttrs: make(map[string]any),
	}
}

// With returns a logger with the fields attached to every record. The child
// shares the parent's writer and dropped-record counter.
func (l *structuredLogger) With(fields ...Field) Logger {
	attrs := make(map[string]any, len(l.baseAttrs)+len(fields))
	for k, v := range l.baseAttrs {
		attrs[k] = v
	}
	for _, f := range fields {
		attrs[f.Key] = f.Value
	}

	return &structuredLogger{
		service:   l.service,
		level:     l.level,
		writer:    l.writer,
		mu:        l.mu,
		dropped:   l.dropped,
		baseAttrs: attrs,
	}
}

func (l *structuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *structuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelInfo, msg, fields)
}

func (l *structuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelWarn, msg, fields)
}

func (l *structuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelError, msg, fields)
}

func (l *structuredLogger) log(ctx context.Context, level LogLevel, msg string, fields []Field) {
	// Filter by level
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.baseAttrs)+len(fields)+6)

	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["message"] = msg
	entry["service"] = l.service

	// The execution context rides along implicitly; callers never pass it.
	if ec, ok := execctx.From(ctx); ok {
		entry["correlation_id"] = ec.CorrelationID
		if ec.ActorID != "" {
			entry["actor_id"] = ec.ActorID
		}
	}

	for k, v := range l.baseAttrs {
		entry[k] = v
	}

	// Add fields (with redaction)
	for _, f := range fields {
		if isRedactedField(f.Key) {
			entry[f.Key] = "[REDACTED]"
		} else {
			entry[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// Logging never fails the caller: drop and count.
		atomic.AddInt64(l.dropped, 1)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.writer.Write(append(data, '\n')); err != nil {
		atomic.AddInt64(l.dropped, 1)
	}
}

// Dropped returns the number of records dropped by marshal or write failures.
func (l *structuredLogger) Dropped() int64 {
	return atomic.LoadInt64(l.dropped)
}

// isRedactedField returns true if the field should be redacted.
func isRedactedField(key string) bool {
	redactedKeys := map[string]bool{
		"password":   true,
		"secret":     true,
		"token":      true,
		"api_key":    true,
		"apiKey":     true,
		"credential": true,
	}
	return redactedKeys[key]
}

// DroppedCounter is implemented by loggers that count dropped records.
type DroppedCounter interface {
	Dropped() int64
}

// Ensure structuredLogger implements Logger and DroppedCounter
var (
	_ Logger         = (*structuredLogger)(nil)
	_ DroppedCounter = (*structuredLogger)(nil)
)
