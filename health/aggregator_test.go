package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func staticChecker(name string, result Result) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		return result
	})
}

func TestAggregator_RegisterAndCheck(t *testing.T) {
	agg := NewAggregator()
	agg.Register("db", staticChecker("db", Healthy("connected")))

	result, err := agg.Check(context.Background(), "db")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Status != StatusHealthy {
		t.Errorf("status = %v, want %v", result.Status, StatusHealthy)
	}
	if result.Duration <= 0 {
		t.Error("duration should be set by the aggregator")
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	agg := NewAggregator()

	_, err := agg.Check(context.Background(), "missing")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("err = %v, want %v", err, ErrCheckerNotFound)
	}
}

func TestAggregator_Unregister(t *testing.T) {
	agg := NewAggregator()
	agg.Register("a", staticChecker("a", Healthy("ok")))
	agg.Register("b", staticChecker("b", Healthy("ok")))

	agg.Unregister("a")

	names := agg.CheckerNames()
	if len(names) != 1 || names[0] != "b" {
		t.Errorf("CheckerNames() = %v, want [b]", names)
	}

	if _, err := agg.Check(context.Background(), "a"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("err = %v, want %v", err, ErrCheckerNotFound)
	}
}

func TestAggregator_CheckerNamesOrder(t *testing.T) {
	agg := NewAggregator()
	agg.Register("c", staticChecker("c", Healthy("ok")))
	agg.Register("a", staticChecker("a", Healthy("ok")))
	agg.Register("b", staticChecker("b", Healthy("ok")))

	// Re-registering must not duplicate the name.
	agg.Register("a", staticChecker("a", Degraded("slow")))

	names := agg.CheckerNames()
	want := []string{"c", "a", "b"}
	if len(names) != len(want) {
		t.Fatalf("CheckerNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator()
	agg.Register("db", staticChecker("db", Healthy("connected")))
	agg.Register("queue", staticChecker("queue", Degraded("backlog growing")))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results["db"].Status != StatusHealthy {
		t.Errorf("db status = %v, want %v", results["db"].Status, StatusHealthy)
	}
	if results["queue"].Status != StatusDegraded {
		t.Errorf("queue status = %v, want %v", results["queue"].Status, StatusDegraded)
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	agg := NewAggregator()

	results := agg.CheckAll(context.Background())
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if status := agg.OverallStatus(results); status != StatusHealthy {
		t.Errorf("empty overall status = %v, want %v", status, StatusHealthy)
	}
}

func TestAggregator_CheckAllSequential(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Parallel: false})
	agg.Register("a", staticChecker("a", Healthy("ok")))
	agg.Register("b", staticChecker("b", Healthy("ok")))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestAggregator_CheckTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	agg.Register("slow", NewCheckerFunc("slow", func(ctx context.Context) Result {
		select {
		case <-time.After(time.Second):
			return Healthy("finally")
		case <-ctx.Done():
			return Healthy("cancelled")
		}
	}))

	start := time.Now()
	results := agg.CheckAll(context.Background())
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Errorf("CheckAll took %v, should honor the aggregator timeout", elapsed)
	}
	if results["slow"].Status != StatusUnhealthy {
		t.Errorf("slow status = %v, want %v", results["slow"].Status, StatusUnhealthy)
	}
	if !errors.Is(results["slow"].Error, ErrCheckTimeout) {
		t.Errorf("slow error = %v, want %v", results["slow"].Error, ErrCheckTimeout)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()

	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{
			name: "all healthy",
			results: map[string]Result{
				"a": {Status: StatusHealthy},
				"b": {Status: StatusHealthy},
			},
			want: StatusHealthy,
		},
		{
			name: "one degraded",
			results: map[string]Result{
				"a": {Status: StatusHealthy},
				"b": {Status: StatusDegraded},
			},
			want: StatusDegraded,
		},
		{
			name: "unhealthy wins over degraded",
			results: map[string]Result{
				"a": {Status: StatusDegraded},
				"b": {Status: StatusUnhealthy},
			},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
