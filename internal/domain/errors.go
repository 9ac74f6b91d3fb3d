package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an application error into one of the failure families
// the HTTP layer maps onto status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthentication
)

// Error is a kind-tagged application error.
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

// Validationf builds a caller-input error citing the violated rule.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds an error for a missing entity reference.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds an error for a uniqueness or state-machine violation.
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// AuthFailuref builds an authentication failure error.
func AuthFailuref(format string, args ...any) *Error {
	return &Error{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidCredentials is returned on any credential mismatch. The message
// deliberately does not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid email or password"}

// KindOf returns the kind carried by err, or KindInternal for errors that
// did not originate from this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// DeleteStatus is the discriminated result of a delete operation. Deletes
// report absence instead of raising, uniformly across all entities.
type DeleteStatus string

const (
	Deleted        DeleteStatus = "deleted"
	DeleteNotFound DeleteStatus = "not found"
)
