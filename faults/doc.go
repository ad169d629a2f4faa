// Package faults provides error classification for downstream call failures.
//
// Every failure raised by a wrapped operation carries (or can be inferred to
// carry) a classification that drives policy decisions in the resilience
// package: whether the failure is retried, and whether it counts as evidence
// of dependency failure for a circuit breaker.
//
// # Classes
//
//   - Transient: momentary condition (connection reset, 503). Retryable.
//   - Systemic: the dependency itself is degraded (overload, repeated
//     timeouts). Retryable, and the strongest breaker signal.
//   - Permanent: the call can never succeed as issued (404, bad request).
//     Never retried.
//   - Business: the call succeeded technically but was rejected by domain
//     rules (insufficient funds). Never retried.
//
// # Usage
//
// Operations return classified faults:
//
//	return faults.Transient(faults.CodeConnectionFailed, "connect to payments: refused").WithCause(err)
//
// Policies dispatch on classification:
//
//	if faults.ClassOf(err) == faults.Permanent {
//	    return err // no retry
//	}
package faults
