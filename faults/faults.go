package faults

import (
	"errors"
	"fmt"
	"time"
)

// Class categorizes a failure for policy decisions.
type Class int

const (
	// Unknown means the error carries no classification.
	Unknown Class = iota
	// Transient means a momentary condition that may clear on retry.
	Transient
	// Permanent means the call can never succeed as issued.
	Permanent
	// Systemic means the dependency itself is degraded.
	Systemic
	// Business means the call was rejected by domain rules.
	Business
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	case Systemic:
		return "systemic"
	case Business:
		return "business"
	default:
		return "unknown"
	}
}

// ParseClass parses a class name. Unknown names map to Unknown.
func ParseClass(s string) Class {
	switch s {
	case "transient":
		return Transient
	case "permanent":
		return Permanent
	case "systemic":
		return Systemic
	case "business":
		return Business
	default:
		return Unknown
	}
}

// Fault is a classified call failure.
type Fault struct {
	// Class is the failure classification.
	Class Class

	// Code is a machine-readable error code.
	Code Code

	// Message is a human-readable description.
	Message string

	// Retryable indicates whether a retry may succeed.
	Retryable bool

	// RetryAfter, when non-zero, is the minimum delay before a retry.
	RetryAfter time.Duration

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the string representation of the fault.
func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", f.Class, f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s [%s]: %s", f.Class, f.Code, f.Message)
}

// Unwrap returns the underlying cause.
func (f *Fault) Unwrap() error { return f.Cause }

// WithCause sets the underlying cause and returns the fault.
func (f *Fault) WithCause(cause error) *Fault {
	f.Cause = cause
	return f
}

// WithRetryAfter sets the minimum retry delay and returns the fault.
func (f *Fault) WithRetryAfter(d time.Duration) *Fault {
	f.RetryAfter = d
	return f
}

// NewTransient creates a transient fault. Transient faults are retryable.
func NewTransient(code Code, message string) *Fault {
	return &Fault{Class: Transient, Code: code, Message: message, Retryable: true}
}

// NewSystemic creates a systemic fault. Systemic faults are retryable.
func NewSystemic(code Code, message string) *Fault {
	return &Fault{Class: Systemic, Code: code, Message: message, Retryable: true}
}

// NewPermanent creates a permanent fault. Permanent faults are never retried.
func NewPermanent(code Code, message string) *Fault {
	return &Fault{Class: Permanent, Code: code, Message: message}
}

// NewBusiness creates a business fault. Business faults are never retried.
func NewBusiness(code Code, message string) *Fault {
	return &Fault{Class: Business, Code: code, Message: message}
}

// Wrap classifies an existing error. Retryability follows the class invariant:
// Transient and Systemic are retryable, Permanent and Business are not.
func Wrap(class Class, code Code, err error) *Fault {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Fault{
		Class:     class,
		Code:      code,
		Message:   msg,
		Retryable: class == Transient || class == Systemic,
		Cause:     err,
	}
}

// As extracts a *Fault from err's chain. Returns nil if none is present.
func As(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return nil
}

// ClassOf returns the classification of err, or Unknown when err carries none.
func ClassOf(err error) Class {
	if f := As(err); f != nil {
		return f.Class
	}
	return Unknown
}

// CodeOf returns the error code of err, or an empty code when unclassified.
func CodeOf(err error) Code {
	if f := As(err); f != nil {
		return f.Code
	}
	return ""
}

// IsRetryable reports whether a retry of the failed operation may succeed.
// Permanent and Business faults are never retryable regardless of how the
// fault was constructed.
func IsRetryable(err error) bool {
	f := As(err)
	if f == nil {
		return false
	}
	if f.Class == Permanent || f.Class == Business {
		return false
	}
	return f.Retryable
}

// CountsAgainstBreaker reports whether err is evidence of dependency failure.
// Only Transient and Systemic faults count; Permanent, Business, and
// unclassified errors say nothing about the dependency's health.
func CountsAgainstBreaker(err error) bool {
	switch ClassOf(err) {
	case Transient, Systemic:
		return true
	default:
		return false
	}
}

// RetryAfterOf returns the fault's minimum retry delay, or zero.
func RetryAfterOf(err error) time.Duration {
	if f := As(err); f != nil {
		return f.RetryAfter
	}
	return 0
}
