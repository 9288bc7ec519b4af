// Package errs defines the typed errors shared by the retrieval pipeline.
package errs

import (
	"errors"
	"fmt"
)

// Error is a typed domain error carrying a stable code for logging and
// skip/continue decisions at the orchestrator boundary.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined errors for the pipeline's failure classes.
var (
	ErrTimeout     = New("TIMEOUT", "request timed out")
	ErrConnection  = New("CONNECTION_FAILED", "connection failed")
	ErrHTTPStatus  = New("HTTP_STATUS", "unexpected HTTP status")
	ErrParse       = New("PARSE_ERROR", "malformed docket response")
	ErrNotFound    = New("NOT_FOUND", "case not found")
	ErrPersistence = New("PERSISTENCE", "failed to write artifact")
	ErrInternal    = New("INTERNAL", "internal error")
)

// HTTPStatus builds an HTTP_STATUS error for a concrete status code.
func HTTPStatus(code int) *Error {
	return &Error{Code: ErrHTTPStatus.Code, Message: fmt.Sprintf("unexpected HTTP status %d", code)}
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
}

// Is reports whether err carries the given predefined error's code.
func Is(err error, target *Error) bool {
	e := FromError(err)
	return e != nil && target != nil && e.Code == target.Code
}
