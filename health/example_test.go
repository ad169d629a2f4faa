package health_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/callops/health"
	"github.com/jonwraymond/callops/resilience"
)

func ExampleAggregator() {
	agg := health.NewAggregator()
	agg.Register("database", health.NewCheckerFunc("database", func(ctx context.Context) health.Result {
		return health.Healthy("connection pool ready")
	}))
	agg.Register("queue", health.NewCheckerFunc("queue", func(ctx context.Context) health.Result {
		return health.Degraded("backlog growing")
	}))

	results := agg.CheckAll(context.Background())
	fmt.Println("overall:", agg.OverallStatus(results))
	fmt.Println("database:", results["database"].Status)
	fmt.Println("queue:", results["queue"].Status)

	// Output:
	// overall: degraded
	// database: healthy
	// queue: degraded
}

func ExampleRegisterDependencies() {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "payments"})
	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "payments", MaxConcurrent: 8})

	registry := resilience.NewRegistry()
	_ = registry.Register(resilience.NewInvoker("payments",
		resilience.WithCircuitBreaker(breaker),
		resilience.WithBulkhead(bulkhead),
	))

	agg := health.NewAggregator()
	health.RegisterDependencies(agg, registry)

	for _, name := range agg.CheckerNames() {
		result, _ := agg.Check(context.Background(), name)
		fmt.Printf("%s: %s\n", name, result.Status)
	}

	breaker.Trip()
	result, _ := agg.Check(context.Background(), "payments.breaker")
	fmt.Println("after trip:", result.Status)

	// Output:
	// payments.breaker: healthy
	// payments.bulkhead: healthy
	// after trip: unhealthy
}
