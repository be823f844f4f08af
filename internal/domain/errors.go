package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every failure that reaches the transport layer is either one
// of these (possibly wrapped in a RequestError) or treated as internal.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)

// RequestError carries a class and a message that is safe to show the client.
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *RequestError) Unwrap() error { return e.Kind }

var (
	ErrInvalidCredentials = &RequestError{Kind: ErrForbidden, Message: "Token authentication failed."}
	ErrInvalidJSON        = &RequestError{Kind: ErrBadRequest, Message: "Please send requests in valid JSON."}
	ErrUUIDInUse          = &RequestError{Kind: ErrConflict, Message: "That UUID is already in use."}
)

func BadRequest(format string, args ...any) error {
	return &RequestError{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &RequestError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &RequestError{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}
