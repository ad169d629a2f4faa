package incident

import "errors"

var (
	// ErrNotFound indicates no incident exists with the given id.
	ErrNotFound = errors.New("incident: not found")

	// ErrAlreadyResolved indicates the incident was already resolved.
	ErrAlreadyResolved = errors.New("incident: already resolved")

	// ErrNoBreaker indicates the open-circuit action found no breaker for
	// the dependency.
	ErrNoBreaker = errors.New("incident: no circuit breaker registered for dependency")

	// ErrNoHook indicates a scale or failover action has no hook configured.
	ErrNoHook = errors.New("incident: no hook configured for action")
)
