package observe

import (
	"context"
	"errors"
	"testing"
)

// TestConfig_Validate verifies configuration validation rules.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "checkout"},
		},
		{
			name: "invalid tracing exporter",
			cfg: Config{
				ServiceName: "checkout",
				Tracing:     TracingConfig{Enabled: true, Exporter: "jaeger"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "sample pct too high",
			cfg: Config{
				ServiceName: "checkout",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "sample pct negative",
			cfg: Config{
				ServiceName: "checkout",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: -0.1},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "invalid metrics exporter",
			cfg: Config{
				ServiceName: "checkout",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "invalid log level",
			cfg: Config{
				ServiceName: "checkout",
				Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
			},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled subsystems skip validation",
			cfg: Config{
				ServiceName: "checkout",
				Tracing:     TracingConfig{Enabled: false, Exporter: "bogus"},
				Metrics:     MetricsConfig{Enabled: false, Exporter: "bogus"},
				Logging:     LoggingConfig{Enabled: false, Level: "bogus"},
			},
		},
		{
			name: "full valid config",
			cfg: Config{
				ServiceName: "checkout",
				Version:     "1.2.3",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.25},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestNewObserver_AllDisabled verifies the observer works with all subsystems off.
func TestNewObserver_AllDisabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "checkout"})
	if err != nil {
		t.Fatalf("failed to create observer: %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("expected non-nil tracer")
	}
	if obs.Meter() == nil {
		t.Error("expected non-nil meter")
	}
	if obs.Logger() == nil {
		t.Error("expected non-nil logger")
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

// TestNewObserver_InvalidConfig verifies config validation runs on creation.
func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Fatalf("expected ErrMissingServiceName, got %v", err)
	}
}

// TestNewObserver_NoneExporters verifies the no-op exporters wire up cleanly.
func TestNewObserver_NoneExporters(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "checkout",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		t.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(context.Background())

	// Tracer must produce usable spans.
	ctx, span := obs.Tracer().Start(context.Background(), "test-span")
	if ctx == nil || span == nil {
		t.Fatal("expected usable span")
	}
	span.End()
}

// TestNewObserver_ShutdownIdempotent verifies repeated shutdown is safe.
func TestNewObserver_ShutdownIdempotent(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "checkout",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
	})
	if err != nil {
		t.Fatalf("failed to create observer: %v", err)
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Fatalf("first shutdown failed: %v", err)
	}
	// Second shutdown must not panic. The SDK may report already-shutdown;
	// either nil or an error is acceptable, a panic is not.
	_ = obs.Shutdown(context.Background())
}
