package execctx

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Context is the immutable execution context of one logical request.
type Context struct {
	// CorrelationID is an opaque id threading the request through all
	// downstream calls and log events.
	CorrelationID string

	// ActorID identifies the acting principal. May be empty.
	ActorID string

	// Deadline is the absolute point after which the request's work is
	// worthless. Zero means no deadline.
	Deadline time.Time
}

// Option configures a new Context.
type Option func(*Context)

// WithCorrelationID sets an explicit correlation id.
func WithCorrelationID(id string) Option {
	return func(c *Context) { c.CorrelationID = id }
}

// WithActor sets the acting principal.
func WithActor(actor string) Option {
	return func(c *Context) { c.ActorID = actor }
}

// WithDeadline sets the absolute deadline.
func WithDeadline(t time.Time) Option {
	return func(c *Context) { c.Deadline = t }
}

// WithTimeout sets the deadline relative to now.
func WithTimeout(d time.Duration) Option {
	return func(c *Context) { c.Deadline = time.Now().Add(d) }
}

// New creates an execution context for an inbound request. A correlation id
// is minted when none is supplied.
func New(opts ...Option) Context {
	c := Context{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.CorrelationID == "" {
		c.CorrelationID = uuid.NewString()
	}
	return c
}

// Child derives a context for a downstream call. The child deadline may only
// shorten the parent's: a zero parent deadline adopts the given one, a later
// candidate is ignored.
func (c Context) Child(deadline time.Time) Context {
	child := c
	if deadline.IsZero() {
		return child
	}
	if child.Deadline.IsZero() || deadline.Before(child.Deadline) {
		child.Deadline = deadline
	}
	return child
}

// ChildTimeout derives a context whose deadline is at most d from now.
func (c Context) ChildTimeout(d time.Duration) Context {
	return c.Child(time.Now().Add(d))
}

// Remaining returns the time budget left before the deadline. A zero deadline
// returns ok=false.
func (c Context) Remaining(now time.Time) (time.Duration, bool) {
	if c.Deadline.IsZero() {
		return 0, false
	}
	return c.Deadline.Sub(now), true
}

// Expired reports whether the deadline has passed.
func (c Context) Expired(now time.Time) bool {
	return !c.Deadline.IsZero() && !now.Before(c.Deadline)
}

// Context keys for execution context carriage.
type contextKey int

const execKey contextKey = iota

// Inject returns a context.Context carrying ec. When ec has a deadline the
// returned context also enforces it, so suspension points observe
// context.DeadlineExceeded; the returned cancel must be called.
func Inject(ctx context.Context, ec Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, execKey, ec)
	if ec.Deadline.IsZero() {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, ec.Deadline)
}

// Attach returns a context.Context carrying ec without enforcing its deadline.
// Use Inject at the request boundary; Attach is for tests and for callers that
// manage cancellation themselves.
func Attach(ctx context.Context, ec Context) context.Context {
	return context.WithValue(ctx, execKey, ec)
}

// From retrieves the execution context. ok is false when none is attached.
func From(ctx context.Context) (Context, bool) {
	ec, ok := ctx.Value(execKey).(Context)
	return ec, ok
}

// CorrelationID retrieves the correlation id from the context, or "".
func CorrelationID(ctx context.Context) string {
	ec, _ := From(ctx)
	return ec.CorrelationID
}

// ActorID retrieves the actor id from the context, or "".
func ActorID(ctx context.Context) string {
	ec, _ := From(ctx)
	return ec.ActorID
}
