package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap these so transport code can map an error to an
// HTTP status with errors.Is instead of matching message strings.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

// Error carries a user-visible message together with its kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Message returns the user-visible message for a domain error, or empty if
// err is not one. Callers fall back to a generic message for unknown errors
// so storage detail never reaches the client.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.msg
	}
	return ""
}

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Validationf builds a 400-class error.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// Unauthorizedf builds a 401-class error.
func Unauthorizedf(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

// Forbiddenf builds a 403-class error.
func Forbiddenf(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

// NotFoundf builds a 404-class error.
func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// Conflictf builds a 409-class error.
func Conflictf(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}
