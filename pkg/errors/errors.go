package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the category of a domain error
type Kind string

const (
	// KindNotFound means the actor or a target user/post does not exist
	KindNotFound Kind = "not_found"
	// KindForbidden means the actor lacks rights for the operation
	KindForbidden Kind = "forbidden"
	// KindConflict means the operation violates a state invariant
	KindConflict Kind = "conflict"
	// KindValidation means the input is malformed
	KindValidation Kind = "validation"
	// KindUnauthorized means the caller's credentials were rejected
	KindUnauthorized Kind = "unauthorized"
	// KindInternal is used for everything that is not a domain error
	KindInternal Kind = "internal"
)

// Error is a domain error carrying its kind and a user-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error // Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a domain error of the given kind around err
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func Validation(message string) *Error { return New(KindValidation, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// KindOf returns the kind of the first domain error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-facing message of the first domain error in
// err's chain.
func MessageOf(err error) string {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}
