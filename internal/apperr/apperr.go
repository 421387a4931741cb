// Package apperr defines the error taxonomy shared by the storefront client.
//
// Every failure surfaced by the client core is one of four kinds:
//
//   - Validation: rejected locally before any network call
//   - Unauthorized: the backend rejected the session credential
//   - Domain: the backend refused the operation (stock, empty cart, ...)
//   - Network: transport failure or timeout; says nothing about server state
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for handling policy decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindDomain
	KindNetwork
)

// String returns a stable label for the kind, used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindDomain:
		return "domain"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carrying a kind and, for domain errors,
// the HTTP status the backend answered with.
type Error struct {
	kind   Kind
	msg    string
	status int
	err    error
}

func (e *Error) Error() string {
	if e.err != nil && e.msg != "" {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Status returns the HTTP status carried by domain and unauthorized errors,
// or zero when no status applies.
func (e *Error) Status() int { return e.status }

// Validation creates a local pre-network validation error.
func Validation(msg string) *Error {
	return &Error{kind: KindValidation, msg: msg}
}

// Validationf creates a formatted validation error.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// Unauthorized creates an authentication failure error.
func Unauthorized(msg string) *Error {
	return &Error{kind: KindUnauthorized, msg: msg, status: 401}
}

// Domain creates a backend-refused operation error carrying the response status.
func Domain(status int, msg string) *Error {
	return &Error{kind: KindDomain, msg: msg, status: status}
}

// Network wraps a transport-level failure.
func Network(msg string, err error) *Error {
	return &Error{kind: KindNetwork, msg: msg, err: err}
}

// KindOf classifies an arbitrary error, unwrapping as needed.
// Plain errors classify as KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsDomain reports whether err is a backend domain refusal.
func IsDomain(err error) bool { return KindOf(err) == KindDomain }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }
