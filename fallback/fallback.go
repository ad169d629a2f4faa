package fallback

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jonwraymond/callops/resilience"
)

// ValueOperation is a call that produces a result worth keeping.
type ValueOperation func(ctx context.Context) (any, error)

// ShouldFall decides whether an error warrants serving the last-known-good
// value. Returning false propagates the error to the caller unchanged.
type ShouldFall func(err error) bool

// DefaultShouldFall serves fallback for load-shedding rejections and retry
// exhaustion. Plain business errors propagate: a rejected payment is an
// answer, not an outage.
func DefaultShouldFall(err error) bool {
	return resilience.IsFastFail(err) || errors.Is(err, resilience.ErrMaxRetries)
}

// Config configures a Fallback.
type Config struct {
	// Store holds the last-known-good values. Default: a fresh store with
	// default TTL.
	Store *Store

	// ShouldFall decides which errors are served from the store.
	// Default: DefaultShouldFall
	ShouldFall ShouldFall
}

// Fallback wraps value-returning operations, recording successes and serving
// the stored value when the operation fails terminally.
type Fallback struct {
	store      *Store
	shouldFall ShouldFall

	hits   atomic.Int64
	misses atomic.Int64
	stored atomic.Int64
}

// New creates a Fallback.
func New(config ...Config) *Fallback {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	// Apply defaults
	if cfg.Store == nil {
		cfg.Store = NewStore()
	}
	if cfg.ShouldFall == nil {
		cfg.ShouldFall = DefaultShouldFall
	}

	return &Fallback{
		store:      cfg.Store,
		shouldFall: cfg.ShouldFall,
	}
}

// Execute runs the operation. On success the result is stored under the key
// and returned. On a terminal failure the stored value is served when one
// exists; otherwise the operation's error propagates. Non-terminal errors
// always propagate.
func (f *Fallback) Execute(ctx context.Context, key string, op ValueOperation) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	value, err := op(ctx)
	if err == nil {
		_ = f.store.Put(key, value)
		f.stored.Add(1)
		return value, nil
	}

	if !f.shouldFall(err) {
		return nil, err
	}

	if cached, ok := f.store.Get(key); ok {
		f.hits.Add(1)
		return cached, nil
	}

	f.misses.Add(1)
	return nil, err
}

// Store returns the underlying last-known-good store.
func (f *Fallback) Store() *Store {
	return f.store
}

// Metrics is a snapshot of fallback counters.
type Metrics struct {
	// Hits is the number of calls served from the store.
	Hits int64

	// Misses is the number of terminal failures with no stored value.
	Misses int64

	// Stored is the number of successful results recorded.
	Stored int64
}

// Metrics returns a snapshot of the fallback's counters.
func (f *Fallback) Metrics() Metrics {
	return Metrics{
		Hits:   f.hits.Load(),
		Misses: f.misses.Load(),
		Stored: f.stored.Load(),
	}
}
