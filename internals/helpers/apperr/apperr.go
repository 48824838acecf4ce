// Package apperr holds the error taxonomy shared by services and HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotAuthorized Kind = "not_authorized"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindTransient     Kind = "transient"
	KindFatal         Kind = "fatal"
)

// Error is what services return for anything the caller should see.
// Message is always safe to show to the client; Err carries the detail for logs.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// Unauthorized: wrong role or missing identity.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindNotAuthorized, Status: http.StatusUnauthorized, Message: msg}
}

// Hidden: authorization failure rendered as 404 so existence is not leaked.
func Hidden(msg string) *Error {
	return &Error{Kind: KindNotAuthorized, Status: http.StatusNotFound, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Message: msg}
}

func Transient(err error) *Error {
	return &Error{Kind: KindTransient, Status: http.StatusInternalServerError, Message: "temporary database failure, please retry", Err: err}
}

func Fatal(err error) *Error {
	return &Error{Kind: KindFatal, Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// As extracts *Error from err (wrapped or not).
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == k
}

// Classify turns any error into *Error; unknown errors become Fatal.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return Fatal(err)
}
