package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/callops/faults"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all requests.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the dependency recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker for one dependency.
type CircuitBreakerConfig struct {
	// Name identifies the guarded dependency.
	Name string

	// FailureThreshold is the number of counted failures before opening.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before probing.
	// Default: 30 seconds
	RecoveryTimeout time.Duration

	// SuccessThreshold is the number of half-open successes required to close.
	// Default: 1
	SuccessThreshold int

	// HalfOpenMaxProbes is the max in-flight trial calls while half-open.
	// Default: SuccessThreshold
	HalfOpenMaxProbes int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(name string, from, to State)

	// IsFailure determines whether an error counts as evidence of dependency
	// failure. Errors outside this set propagate without touching breaker
	// state. Default: faults.CountsAgainstBreaker (Transient and Systemic
	// classifications only).
	IsFailure func(err error) bool
}

// CircuitBreaker guards one dependency, short-circuiting calls once the
// dependency appears to be failing. One instance per dependency name, created
// at startup and shared by all callers for the process lifetime.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu             sync.Mutex
	state          State
	failures       int
	successes      int
	lastTransition time.Time
	halfOpenProbes int
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.HalfOpenMaxProbes <= 0 {
		config.HalfOpenMaxProbes = config.SuccessThreshold
	}
	if config.IsFailure == nil {
		config.IsFailure = faults.CountsAgainstBreaker
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Name returns the guarded dependency's name.
func (cb *CircuitBreaker) Name() string { return cb.config.Name }

// Execute runs the operation through the circuit breaker. When the circuit is
// open the operation is not invoked and ErrCircuitOpen is returned.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterCall(err)
	return err
}

// State returns the current circuit state, applying the lazy open→half-open
// transition when the recovery timeout has elapsed.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Trip forces the circuit open, as if the failure threshold had been reached.
// Used by incident response actions.
func (cb *CircuitBreaker) Trip() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	old := cb.state
	if old == StateOpen {
		return
	}
	cb.state = StateOpen
	cb.lastTransition = time.Now()
	cb.notifyLocked(old, StateOpen)
}

// Reset returns the circuit to closed with all counters cleared.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	old := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenProbes = 0

	if old != StateClosed {
		cb.notifyLocked(old, StateClosed)
	}
}

// beforeCall admits or rejects a call. The open→half-open check-then-act is
// atomic under the breaker mutex so only a bounded number of probes are
// admitted.
func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenProbes >= cb.config.HalfOpenMaxProbes {
			return ErrCircuitOpen
		}
		cb.halfOpenProbes++
	}

	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	old := cb.state

	// A completed probe releases its slot, so halfOpenProbes counts calls in
	// flight rather than calls ever admitted this window. SuccessThreshold may
	// then exceed HalfOpenMaxProbes without exhausting the probe budget.
	if cb.state == StateHalfOpen && cb.halfOpenProbes > 0 {
		cb.halfOpenProbes--
	}

	// Errors outside the configured failure set are not evidence either way:
	// they neither count toward the threshold nor reset it.
	if err != nil && !cb.config.IsFailure(err) {
		return
	}

	switch cb.state {
	case StateClosed:
		if err != nil {
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.state = StateOpen
				cb.lastTransition = time.Now()
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		if err != nil {
			// A single failed probe reopens the circuit and restarts the
			// recovery clock.
			cb.state = StateOpen
			cb.lastTransition = time.Now()
			cb.successes = 0
		} else {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.state = StateClosed
				cb.failures = 0
				cb.successes = 0
				cb.halfOpenProbes = 0
			}
		}
	}

	if old != cb.state {
		cb.notifyLocked(old, cb.state)
	}
}

func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastTransition) >= cb.config.RecoveryTimeout {
		cb.state = StateHalfOpen
		cb.halfOpenProbes = 0
		cb.successes = 0
		cb.notifyLocked(StateOpen, StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) notifyLocked(from, to State) {
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

// Metrics returns a snapshot of the breaker's counters.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		Name:           cb.config.Name,
		State:          cb.currentStateLocked(),
		Failures:       cb.failures,
		Successes:      cb.successes,
		LastTransition: cb.lastTransition,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	Name           string
	State          State
	Failures       int
	Successes      int
	LastTransition time.Time
}
