// Package apperr carries the error taxonomy shared by every stage:
// validation failures, missing resources, external-call timeouts,
// external-process failures, and client-side network failures.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and user messaging.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindTimeout    Kind = "TIMEOUT"
	KindExternal   Kind = "EXTERNAL"
	KindNetwork    Kind = "NETWORK"
)

// Error is a classified error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error returns the formatted message; the cause is already part of it
// when the constructor was given one.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newf(kind Kind, format string, args ...any) *Error {
	var cause error
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			cause = err
		}
	}
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func Validationf(format string, args ...any) *Error { return newf(KindValidation, format, args...) }
func NotFoundf(format string, args ...any) *Error   { return newf(KindNotFound, format, args...) }
func Timeoutf(format string, args ...any) *Error    { return newf(KindTimeout, format, args...) }
func Externalf(format string, args ...any) *Error   { return newf(KindExternal, format, args...) }
func Networkf(format string, args ...any) *Error    { return newf(KindNetwork, format, args...) }

// KindOf returns the Kind of err, or KindExternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code its stage handler should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
