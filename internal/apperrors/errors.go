package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindInvalidOperation Kind = "invalid_operation"
	KindUnauthenticated  Kind = "unauthenticated"
	KindNotFound         Kind = "not_found"
	KindForbidden        Kind = "forbidden"
	KindConflict         Kind = "conflict"
	KindRateLimited      Kind = "rate_limited"
	KindUpstreamFailure  Kind = "upstream_failure"
	KindInternal         Kind = "internal"
)

// Error is the typed error returned by repositories and services
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements error interface
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

// Unwrap implements errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so sentinels like ErrNotFound work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks
var (
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrUpstreamFailure  = &Error{Kind: KindUpstreamFailure}
	ErrInternal         = &Error{Kind: KindInternal}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying cause
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) *Error     { return New(KindInvalidInput, message) }
func InvalidOperation(message string) *Error { return New(KindInvalidOperation, message) }
func Unauthenticated(message string) *Error  { return New(KindUnauthenticated, message) }
func NotFound(message string) *Error         { return New(KindNotFound, message) }
func Forbidden(message string) *Error        { return New(KindForbidden, message) }
func Conflict(message string) *Error         { return New(KindConflict, message) }
func RateLimited(message string) *Error      { return New(KindRateLimited, message) }

func UpstreamFailure(err error, message string) *Error {
	return Wrap(KindUpstreamFailure, err, message)
}

func Internal(err error, message string) *Error {
	return Wrap(KindInternal, err, message)
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// PublicMessage returns the message safe to show to clients
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		return "Internal server error"
	}
	if appErr.Message != "" {
		return appErr.Message
	}
	return string(appErr.Kind)
}
