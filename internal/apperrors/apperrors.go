// Package apperrors defines the error taxonomy returned by the API.
// Handlers detect invariant violations explicitly and wrap them in one of
// these kinds; anything untyped surfaces as a 500.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindForbidden
	KindConflict
	KindNotFound
	KindStore
)

// Error is a client-reportable error with a stable HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Auth(msg string) error {
	return &Error{Kind: KindAuth, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Store wraps an unexpected persistence failure. A nil cause still yields a
// usable 500.
func Store(err error) error {
	msg := "unexpected store failure"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// Status maps an error to its HTTP status code. Conflicts map to 400: the
// clients treat creator-guard failures as bad requests, not 409s.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
