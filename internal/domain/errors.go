package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindStoreFailure Kind = "store_failure"
)

// Error is the error type returned by services and repositories.
// Two errors are considered equal by errors.Is when their kinds match.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "permission denied"}
	ErrStoreFailure = &Error{Kind: KindStoreFailure, Message: "store failure"}
)

// InvalidInput builds a caller-facing validation error
func InvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error naming the missing record
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds a permission error
func Unauthorized(format string, args ...any) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// StoreFailure wraps an underlying store error
func StoreFailure(op string, err error) error {
	return &Error{Kind: KindStoreFailure, Message: op, Err: err}
}

// KindOf returns the kind of err. Errors outside the taxonomy count as store failures.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStoreFailure
}

// MessageOf returns the caller-facing message of err
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		if de.Kind == KindStoreFailure {
			return "internal error"
		}
		return de.Message
	}
	return "internal error"
}
