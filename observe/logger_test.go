package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jonwraymond/callops/execctx"
)

// decodeRecords parses newline-delimited JSON log output.
func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("failed to decode log record %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

// TestLogger_WireFormat verifies every record carries the stable field names.
func TestLogger_WireFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "info", &buf)

	logger.Info(context.Background(), "payment accepted", F("amount_cents", 1250))

	records := decodeRecords(t, &buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]

	if rec["level"] != "info" {
		t.Errorf("expected level 'info', got %v", rec["level"])
	}
	if rec["message"] != "payment accepted" {
		t.Errorf("expected message 'payment accepted', got %v", rec["message"])
	}
	if rec["service"] != "checkout" {
		t.Errorf("expected service 'checkout', got %v", rec["service"])
	}
	if _, ok := rec["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
	if rec["amount_cents"] != float64(1250) {
		t.Errorf("expected amount_cents 1250, got %v", rec["amount_cents"])
	}
}

// TestLogger_CorrelationEnrichment verifies correlation and actor ids are read
// from the execution context and attached to every record.
func TestLogger_CorrelationEnrichment(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "info", &buf)

	ec := execctx.New(
		execctx.WithCorrelationID("corr-123"),
		execctx.WithActor("svc-billing"),
	)
	ctx := execctx.Attach(context.Background(), ec)

	logger.Info(ctx, "refund issued")

	records := decodeRecords(t, &buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]

	if rec["correlation_id"] != "corr-123" {
		t.Errorf("expected correlation_id 'corr-123', got %v", rec["correlation_id"])
	}
	if rec["actor_id"] != "svc-billing" {
		t.Errorf("expected actor_id 'svc-billing', got %v", rec["actor_id"])
	}
}

// TestLogger_NoExecutionContext verifies records without an execution context
// simply omit correlation fields.
func TestLogger_NoExecutionContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "info", &buf)

	logger.Info(context.Background(), "startup complete")

	rec := decodeRecords(t, &buf)[0]
	if _, ok := rec["correlation_id"]; ok {
		t.Error("expected no correlation_id without execution context")
	}
	if _, ok := rec["actor_id"]; ok {
		t.Error("expected no actor_id without execution context")
	}
}

// TestLogger_LevelFiltering verifies records below the configured level are dropped.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "warn", &buf)

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	records := decodeRecords(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records at warn level, got %d", len(records))
	}
	if records[0]["level"] != "warn" || records[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v, %v", records[0]["level"], records[1]["level"])
	}
}

// TestLogger_With verifies child loggers attach their fields to every record.
func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "info", &buf)

	child := logger.With(F("dependency", "payments"), F("region", "us-east-1"))
	child.Info(context.Background(), "call completed")

	rec := decodeRecords(t, &buf)[0]
	if rec["dependency"] != "payments" {
		t.Errorf("expected dependency 'payments', got %v", rec["dependency"])
	}
	if rec["region"] != "us-east-1" {
		t.Errorf("expected region 'us-east-1', got %v", rec["region"])
	}

	// Parent is unaffected.
	buf.Reset()
	logger.Info(context.Background(), "plain record")
	rec = decodeRecords(t, &buf)[0]
	if _, ok := rec["dependency"]; ok {
		t.Error("parent logger must not carry child fields")
	}
}

// TestLogger_Redaction verifies sensitive field values are replaced.
func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "info", &buf)

	logger.Info(context.Background(), "auth attempt",
		F("password", "hunter2"),
		F("token", "eyJhbGci"),
		F("username", "jdoe"),
	)

	rec := decodeRecords(t, &buf)[0]
	if rec["password"] != "[REDACTED]" {
		t.Errorf("expected password redacted, got %v", rec["password"])
	}
	if rec["token"] != "[REDACTED]" {
		t.Errorf("expected token redacted, got %v", rec["token"])
	}
	if rec["username"] != "jdoe" {
		t.Errorf("expected username passed through, got %v", rec["username"])
	}
}

// TestLogger_DroppedOnMarshalFailure verifies unmarshalable records are
// counted instead of failing the caller.
func TestLogger_DroppedOnMarshalFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "info", &buf)

	// Channels cannot be marshaled to JSON.
	logger.Info(context.Background(), "bad record", F("ch", make(chan int)))

	dc, ok := logger.(DroppedCounter)
	if !ok {
		t.Fatal("expected logger to implement DroppedCounter")
	}
	if got := dc.Dropped(); got != 1 {
		t.Errorf("expected 1 dropped record, got %d", got)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for dropped record, got %q", buf.String())
	}
}

// failingWriter always returns an error.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

// TestLogger_DroppedOnWriteFailure verifies write errors are counted.
func TestLogger_DroppedOnWriteFailure(t *testing.T) {
	logger := NewLoggerWithWriter("checkout", "info", failingWriter{})

	logger.Info(context.Background(), "record one")
	logger.Info(context.Background(), "record two")

	if got := logger.(DroppedCounter).Dropped(); got != 2 {
		t.Errorf("expected 2 dropped records, got %d", got)
	}
}

// TestLogger_ChildSharesDroppedCounter verifies With() children report into
// the parent's dropped counter.
func TestLogger_ChildSharesDroppedCounter(t *testing.T) {
	logger := NewLoggerWithWriter("checkout", "info", failingWriter{})
	child := logger.With(F("dependency", "payments"))

	child.Info(context.Background(), "record")

	if got := logger.(DroppedCounter).Dropped(); got != 1 {
		t.Errorf("expected parent to see child's dropped record, got %d", got)
	}
}

// TestLogger_ConcurrentWrites verifies records are not interleaved.
func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("checkout", "info", &buf)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 20; j++ {
				logger.Info(context.Background(), "concurrent record", F("n", j))
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	records := decodeRecords(t, &buf)
	if len(records) != 200 {
		t.Errorf("expected 200 well-formed records, got %d", len(records))
	}
}

// TestParseLogLevel verifies level parsing including the unknown fallback.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
