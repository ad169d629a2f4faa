package execctx

import (
	"context"
	"testing"
	"time"
)

func TestNew_MintsCorrelationID(t *testing.T) {
	a := New()
	b := New()

	if a.CorrelationID == "" {
		t.Fatal("New() minted empty correlation id")
	}
	if a.CorrelationID == b.CorrelationID {
		t.Error("two contexts share a correlation id")
	}
}

func TestNew_Options(t *testing.T) {
	deadline := time.Now().Add(time.Minute)
	ec := New(
		WithCorrelationID("corr-1"),
		WithActor("svc-orders"),
		WithDeadline(deadline),
	)

	if ec.CorrelationID != "corr-1" {
		t.Errorf("CorrelationID = %q, want corr-1", ec.CorrelationID)
	}
	if ec.ActorID != "svc-orders" {
		t.Errorf("ActorID = %q, want svc-orders", ec.ActorID)
	}
	if !ec.Deadline.Equal(deadline) {
		t.Errorf("Deadline = %v, want %v", ec.Deadline, deadline)
	}
}

func TestChild_NeverExtendsDeadline(t *testing.T) {
	parentDeadline := time.Now().Add(time.Minute)
	parent := New(WithDeadline(parentDeadline))

	// Later candidate is ignored.
	child := parent.Child(parentDeadline.Add(time.Hour))
	if !child.Deadline.Equal(parentDeadline) {
		t.Errorf("child extended deadline to %v", child.Deadline)
	}

	// Earlier candidate shortens.
	earlier := parentDeadline.Add(-30 * time.Second)
	child = parent.Child(earlier)
	if !child.Deadline.Equal(earlier) {
		t.Errorf("child deadline = %v, want %v", child.Deadline, earlier)
	}

	// Parent without deadline adopts the candidate.
	free := New()
	child = free.Child(earlier)
	if !child.Deadline.Equal(earlier) {
		t.Errorf("child of deadline-free parent = %v, want %v", child.Deadline, earlier)
	}

	// Parent is unchanged.
	if !parent.Deadline.Equal(parentDeadline) {
		t.Error("Child mutated the parent")
	}
}

func TestRemaining(t *testing.T) {
	now := time.Now()
	ec := New(WithDeadline(now.Add(time.Second)))

	left, ok := ec.Remaining(now)
	if !ok || left != time.Second {
		t.Errorf("Remaining() = %v, %v, want 1s, true", left, ok)
	}

	if _, ok := New().Remaining(now); ok {
		t.Error("deadline-free context reported a remaining budget")
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	ec := New(WithDeadline(now.Add(time.Second)))

	if ec.Expired(now) {
		t.Error("context expired before its deadline")
	}
	if !ec.Expired(now.Add(2 * time.Second)) {
		t.Error("context not expired after its deadline")
	}
	if New().Expired(now.Add(time.Hour)) {
		t.Error("deadline-free context expired")
	}
}

func TestInject_From(t *testing.T) {
	ec := New(WithCorrelationID("corr-2"), WithActor("svc-a"))
	ctx, cancel := Inject(context.Background(), ec)
	defer cancel()

	got, ok := From(ctx)
	if !ok {
		t.Fatal("From() found no execution context")
	}
	if got.CorrelationID != "corr-2" || got.ActorID != "svc-a" {
		t.Errorf("From() = %+v", got)
	}

	if CorrelationID(ctx) != "corr-2" {
		t.Errorf("CorrelationID() = %q", CorrelationID(ctx))
	}
	if ActorID(ctx) != "svc-a" {
		t.Errorf("ActorID() = %q", ActorID(ctx))
	}
}

func TestInject_EnforcesDeadline(t *testing.T) {
	ec := New(WithTimeout(10 * time.Millisecond))
	ctx, cancel := Inject(context.Background(), ec)
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("context did not expire with the execution deadline")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}

func TestFrom_Missing(t *testing.T) {
	if _, ok := From(context.Background()); ok {
		t.Error("From() reported a context where none was attached")
	}
	if CorrelationID(context.Background()) != "" {
		t.Error("CorrelationID() non-empty on bare context")
	}
}

func TestAttach_DoesNotEnforceDeadline(t *testing.T) {
	ec := New(WithTimeout(time.Nanosecond))
	ctx := Attach(context.Background(), ec)

	if ctx.Err() != nil {
		t.Errorf("Attach enforced the deadline: %v", ctx.Err())
	}
	if _, ok := From(ctx); !ok {
		t.Error("Attach lost the execution context")
	}
}
