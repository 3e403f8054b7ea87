package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

// Error carries the HTTP status and machine readable code a handler should answer with.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// kindError reads as its message alone but still matches its sentinel with errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func NotFound(code, msg string) *Error {
	return New(http.StatusNotFound, code, &kindError{msg: msg, kind: ErrNotFound})
}

func BadRequest(code, msg string) *Error {
	return New(http.StatusBadRequest, code, &kindError{msg: msg, kind: ErrInvalidArgument})
}

func Forbidden(code, msg string) *Error {
	return New(http.StatusForbidden, code, &kindError{msg: msg, kind: ErrForbidden})
}

func Unauthorized(code, msg string) *Error {
	return New(http.StatusUnauthorized, code, &kindError{msg: msg, kind: ErrUnauthorized})
}

// StatusOf resolves the response status for err. Errors that are not *Error are mapped
// through the sentinels; anything else is a 500.
func StatusOf(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status, ae.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrConflict):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
