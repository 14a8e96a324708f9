package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeInvalidInput      Code = "invalid_input"
	CodeNotFound          Code = "not_found"
	CodeSecurityViolation Code = "security_violation"
	CodePolicyViolation   Code = "policy_violation"
	CodeCapacityExceeded  Code = "capacity_exceeded"
	CodeConflict          Code = "conflict"
	CodeInternal          Code = "internal_error"
)

// Reason refines a Code when callers need to tell apart failures of the same category.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonFinePending        Reason = "fine_pending"
	ReasonBorrowLimitReached Reason = "borrow_limit_reached"
	ReasonAssetUnavailable   Reason = "asset_unavailable"
	ReasonAlreadyBorrowed    Reason = "already_borrowed"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code   Code
	Reason Reason
	// Key is the identifier the failure is about, e.g. the missing key of a NotFound.
	Key     string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Reason != ReasonNone {
		return string(e.Code) + ": " + string(e.Reason)
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
// A target carrying a Reason only matches errors with the same Reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Reason == ReasonNone || e.Reason == t.Reason
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NotFound creates a CodeNotFound error carrying the missing key.
func NotFound(key, msg string) error {
	return &Error{Code: CodeNotFound, Key: key, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code and reason are preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Reason: existing.Reason, Key: existing.Key, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// HasReason checks if an error is a domain error with the given code and reason.
func HasReason(err error, code Code, reason Reason) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code && e.Reason == reason
	}
	return false
}

// CodeOf returns the domain code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ReasonOf returns the reason of err, or ReasonNone when err is not a domain error.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNone
}
