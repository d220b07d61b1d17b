package domain

import "errors"

// ErrorKind tags an expected business-rule failure. The api layer maps
// each kind to exactly one HTTP status code.
type ErrorKind string

const (
	KindInvalidInput    ErrorKind = "invalid_input"
	KindConflict        ErrorKind = "conflict"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindInternal        ErrorKind = "internal"
)

// Error is a business-rule failure with a stable kind and a
// human-readable message. Err optionally carries the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two tagged errors by kind and message, so
// sentinel-style comparisons against constructors keep working.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || e.Message == t.Message)
}

func NewInvalidInput(msg string) *Error    { return &Error{Kind: KindInvalidInput, Message: msg} }
func NewConflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func NewUnauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func NewForbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func NewNotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }

// WrapInternal tags an unexpected failure; the api layer hides its
// message from callers.
func WrapInternal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// anything outside the closed set.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
