package resilience

import (
	"context"
	"sync"
	"time"
)

// BulkheadConfig configures a bulkhead for one resource class.
type BulkheadConfig struct {
	// Name identifies the isolated resource class ("database", "external-api").
	Name string

	// MaxConcurrent is the maximum number of simultaneous operations.
	// Default: 10
	MaxConcurrent int

	// QueueCapacity bounds the number of callers waiting for admission.
	// Callers beyond this bound fail immediately with ErrBulkheadFull.
	// Default: 0 (no queuing, fail fast)
	QueueCapacity int

	// Timeout bounds each admitted operation. On expiry the slot is released
	// and ErrOperationTimeout returned. Default: 0 (no per-operation bound)
	Timeout time.Duration
}

// Bulkhead isolates a resource class by bounding concurrent use, so
// exhaustion in one class cannot starve another. One instance per resource
// class, created at startup and shared for the process lifetime.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	waiting   int
	maxActive int
	rejected  int64
	timedOut  int64
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	// Apply defaults
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	if config.QueueCapacity < 0 {
		config.QueueCapacity = 0
	}

	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Name returns the resource class name.
func (b *Bulkhead) Name() string { return b.config.Name }

// Acquire admits the caller or fails fast. A caller first attempts
// non-blocking admission; at capacity it joins the bounded wait queue; when
// the queue is also full, ErrBulkheadFull is returned immediately. The
// context deadline is checked before queuing and honored while queued.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	// Fast path: non-blocking admission.
	select {
	case b.sem <- struct{}{}:
		b.admitted()
		return nil
	default:
	}

	if b.config.QueueCapacity == 0 {
		b.reject()
		return ErrBulkheadFull
	}

	// Never start a wait on an already-expired context.
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	if b.waiting >= b.config.QueueCapacity {
		b.rejected++
		b.mu.Unlock()
		return ErrBulkheadFull
	}
	b.waiting++
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.waiting--
		b.mu.Unlock()
	}()

	select {
	case b.sem <- struct{}{}:
		b.admitted()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot acquired with Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
		// Release without a matching Acquire; nothing to free.
	}
}

// Execute runs the operation inside the bulkhead. Admitted operations run
// under the configured per-operation timeout.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	if b.config.Timeout <= 0 {
		return op(ctx)
	}

	opCtx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(opCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-opCtx.Done():
		if ctx.Err() != nil {
			// The caller's own context expired, not the per-operation bound.
			return ctx.Err()
		}
		b.mu.Lock()
		b.timedOut++
		b.mu.Unlock()
		return ErrOperationTimeout
	}
}

func (b *Bulkhead) admitted() {
	b.mu.Lock()
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

func (b *Bulkhead) reject() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}

// Metrics returns a snapshot of the bulkhead's counters.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Name:          b.config.Name,
		Active:        b.active,
		Waiting:       b.waiting,
		MaxActive:     b.maxActive,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		QueueCapacity: b.config.QueueCapacity,
		Rejected:      b.rejected,
		TimedOut:      b.timedOut,
	}
}

// BulkheadMetrics contains bulkhead statistics.
type BulkheadMetrics struct {
	Name          string
	Active        int
	Waiting       int
	MaxActive     int
	Available     int
	MaxConcurrent int
	QueueCapacity int
	Rejected      int64
	TimedOut      int64
}
