package app

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the boundary layer's status mapping.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindUnauthorized
	KindConflict
	KindInternal
)

// Error is the uniform failure type surfaced by the services. Code is a
// stable machine-readable identifier; Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// ErrNotFound marks a referenced entity as absent or soft-deleted.
func ErrNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf(format, args...)}
}

// ErrForbidden marks an authenticated caller lacking access to an
// existing resource. Never returned before existence is confirmed.
func ErrForbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: fmt.Sprintf(format, args...)}
}

// ErrUnauthorized marks a missing or invalid credential; code
// distinguishes expired, malformed, and bad-signature tokens.
func ErrUnauthorized(code, format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrConflict marks a uniqueness violation.
func ErrConflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: fmt.Sprintf(format, args...)}
}

// ErrInternal wraps an unexpected failure. The cause stays available for
// logging via Unwrap but never reaches the wire message.
func ErrInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "internal error", cause: cause}
}

// Classify returns the typed error, wrapping anything unexpected as internal.
func Classify(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal(err)
}
