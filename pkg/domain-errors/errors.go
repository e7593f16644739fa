// Package domainerrors provides coded errors shared across services and
// handlers. Stores return sentinel errors (pkg/platform/sentinel); services
// translate them into coded errors here; httputil maps codes to HTTP status.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and logging.
type Code string

const (
	// CodeInvalidInput marks malformed external input (bad UUID, unknown enum).
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation marks input that parsed but violates a domain rule.
	CodeValidation Code = "validation"
	// CodeNotFound marks a missing entity on a direct lookup.
	CodeNotFound Code = "not_found"
	// CodeForbidden marks a direct lookup outside the caller's authorized scope.
	// Never silently downgraded.
	CodeForbidden Code = "forbidden"
	// CodeUnauthorized marks a missing or unverifiable principal.
	CodeUnauthorized Code = "unauthorized"
	// CodeConflict marks a uniqueness or state conflict on write.
	CodeConflict Code = "conflict"
	// CodeInternal marks an invariant violation between components. A bug
	// signal, not a user error.
	CodeInternal Code = "internal_error"
	// CodeUnavailable marks an upstream (record store, cache) failure.
	CodeUnavailable Code = "unavailable"
)

// Error is a coded error with an operator-facing message.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ErrCode returns the error's code.
func (e *Error) ErrCode() Code {
	return e.code
}

// Message returns the message without the code prefix.
func (e *Error) Message() string {
	return e.message
}

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable via errors.Is/As for sentinel checks.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so unknown failures never leak details to clients.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
