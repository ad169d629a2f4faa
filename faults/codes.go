package faults

// Code is a machine-readable error code.
type Code string

// Connection/availability codes (typically transient or systemic).
const (
	// CodeServiceUnavailable indicates the dependency is temporarily unavailable.
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeConnectionFailed indicates a failed connection to the dependency.
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	// CodeTimeout indicates the call exceeded its time bound.
	CodeTimeout Code = "TIMEOUT"
	// CodeRateLimited indicates the caller is being rate limited.
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeOverloaded indicates the dependency is shedding load.
	CodeOverloaded Code = "OVERLOADED"
)

// Request codes (permanent).
const (
	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvalidRequest indicates the request is malformed.
	CodeInvalidRequest Code = "INVALID_REQUEST"
	// CodeUnauthorized indicates missing or invalid credentials.
	CodeUnauthorized Code = "UNAUTHORIZED"
)

// Domain codes (business).
const (
	// CodeRejected indicates the dependency refused the operation on domain rules.
	CodeRejected Code = "REJECTED"
	// CodeConflict indicates a conflict with the dependency's current state.
	CodeConflict Code = "CONFLICT"
)

// Internal codes.
const (
	// CodeInternal indicates an unexpected failure inside the dependency.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeDependencyDown indicates the dependency is presumed down.
	CodeDependencyDown Code = "DEPENDENCY_DOWN"
)

var retryableCodes = map[Code]bool{
	CodeServiceUnavailable: true,
	CodeConnectionFailed:   true,
	CodeTimeout:            true,
	CodeRateLimited:        true,
	CodeOverloaded:         true,
	CodeDependencyDown:     true,
}

// IsRetryableCode returns true if the code alone suggests a retry may succeed.
func IsRetryableCode(code Code) bool {
	return retryableCodes[code]
}
