package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies every failure the service layer can report. Handlers map
// kinds onto HTTP status codes; the Message is safe to show to an end user.
type Kind int

const (
	KindEmptyCredentials Kind = iota
	KindInvalidCredentials
	KindNotFound
	KindAlreadyClaimed
	KindInvalidTransition
	KindValidationFailed
	KindStorageFailure
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindEmptyCredentials:
		return "empty_credentials"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotFound:
		return "not_found"
	case KindAlreadyClaimed:
		return "already_claimed"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindValidationFailed:
		return "validation_failed"
	case KindStorageFailure:
		return "storage_failure"
	case KindTimeout:
		return "timeout"
	}
	return "unknown"
}

// Error carries a kind, a user-displayable message and (for storage failures)
// the wrapped cause. The cause is kept for logging, never shown verbatim.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is makes errors.Is match on kind, so callers can compare against the
// exported sentinels below without caring about the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks.
var (
	ErrEmptyCredentials   = New(KindEmptyCredentials, "email and password are required")
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid email or password")
	ErrNotFound           = New(KindNotFound, "record not found")
	ErrAlreadyClaimed     = New(KindAlreadyClaimed, "request has already been claimed")
	ErrInvalidTransition  = New(KindInvalidTransition, "operation not allowed in the current state")
	ErrValidationFailed   = New(KindValidationFailed, "invalid input")
	ErrStorageFailure     = New(KindStorageFailure, "storage operation failed")
	ErrTimeout            = New(KindTimeout, "operation timed out")
)

// Storage wraps an underlying store error at the component boundary.
// Deadline expiry is surfaced as Timeout, everything else as StorageFailure
// with the original error preserved for logs.
func Storage(op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, Message: op + " timed out", cause: err}
	}
	return &Error{Kind: KindStorageFailure, Message: op + " failed", cause: err}
}

// KindOf extracts the kind from err, defaulting to StorageFailure for
// errors that did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageFailure
}

// DisplayMessage returns the user-facing message for err.
func DisplayMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
