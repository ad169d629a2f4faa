package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/callops/execctx"
	"github.com/jonwraymond/callops/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "example-service",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	// Missing service name triggers validation error
	cfg := observe.Config{
		ServiceName: "", // Empty - will fail validation
	}

	ctx := context.Background()
	_, err := observe.NewObserver(ctx, cfg)
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleConfig_Validate() {
	// Valid configuration
	cfg := observe.Config{
		ServiceName: "my-service",
		Version:     "1.0.0",
		Tracing: observe.TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 0.5, // 50% sampling
		},
		Metrics: observe.MetricsConfig{
			Enabled:  true,
			Exporter: "prometheus",
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Configuration is valid")
	}
	// Output:
	// Configuration is valid
}

func ExampleCallMeta_SpanName() {
	// With operation
	meta := observe.CallMeta{
		Dependency: "payments",
		Operation:  "charge",
	}
	fmt.Println(meta.SpanName())

	// Without operation
	meta2 := observe.CallMeta{
		Dependency: "inventory",
	}
	fmt.Println(meta2.SpanName())
	// Output:
	// call.payments.charge
	// call.inventory
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("checkout", "info", &buf)

	// Correlation rides along on the context.
	ec := execctx.New(execctx.WithCorrelationID("corr-789"))
	ctx := execctx.Attach(context.Background(), ec)

	logger.Info(ctx, "order placed", observe.F("order_id", "ord-42"))

	output := buf.Bytes()
	fmt.Println("Contains message:", bytes.Contains(output, []byte("order placed")))
	fmt.Println("Contains correlation_id:", bytes.Contains(output, []byte("corr-789")))
	// Output:
	// Contains message: true
	// Contains correlation_id: true
}

func ExampleLogger_with() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("checkout", "info", &buf)

	// Scope a logger to one dependency.
	depLogger := logger.With(observe.F("dependency", "payments"))
	depLogger.Info(context.Background(), "call completed")

	output := buf.String()
	fmt.Println("Contains dependency:", bytes.Contains([]byte(output), []byte("payments")))
	// Output:
	// Contains dependency: true
}

func ExampleMiddleware_Wrap() {
	ctx := context.Background()

	// Create observer with disabled exporters for example
	cfg := observe.Config{
		ServiceName: "example",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: false},
	}
	obs, _ := observe.NewObserver(ctx, cfg)
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	// Create middleware
	mw, _ := observe.MiddlewareFromObserver(obs)

	// Wrap a dependency call with observability
	wrapped := mw.Wrap(observe.CallMeta{
		Dependency: "payments",
		Operation:  "charge",
	}, func(ctx context.Context) error {
		return nil
	})

	// Execute - automatically traced, metered, and logged
	if err := wrapped(ctx); err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Println("Call succeeded")
	}
	// Output:
	// Call succeeded
}

func ExampleParseLogLevel() {
	levels := []string{"debug", "info", "warn", "error", "unknown"}
	for _, s := range levels {
		level := observe.ParseLogLevel(s)
		fmt.Printf("%s -> %s\n", s, level)
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> info
}
