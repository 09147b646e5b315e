package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

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

// Public is the message safe to show a client. Server-side failures (5xx) expose only their
// code; the wrapped detail is for logs.
func (e *Error) Public() string {
	if e == nil {
		return ""
	}
	if e.Status >= http.StatusInternalServerError {
		if e.Code == "" {
			return "internal error"
		}
		return strings.ReplaceAll(e.Code, "_", " ")
	}
	return e.Error()
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string, format string, args ...any) *Error {
	return New(http.StatusBadRequest, code, fmt.Errorf(format, args...))
}

// NotFound produces the "<entity> not found" message used for missing store rows.
func NotFound(entity string) *Error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf("%s not found", entity))
}

// Upstream marks a collaborator (store or generation service) failure.
func Upstream(code string, err error) *Error {
	return New(http.StatusBadGateway, code, err)
}

// As extracts an *Error from err; anything else is reported as an internal error.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}
