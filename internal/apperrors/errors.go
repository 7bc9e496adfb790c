package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	Internal Kind = iota
	Validation
	Authentication
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authentication:
		return "authentication"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Status is the HTTP status code a kind maps to.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error value carried from the point of detection up to the
// HTTP error translator.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Operational reports whether the message is safe to return to the caller.
func (e *Error) Operational() bool {
	return e.Kind != Internal
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Status: kind.Status()}
}

// NewValidation reports a payload or parameter that failed its rules.
func NewValidation(message string) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return newError(Validation, message)
}

// NewAuthentication reports a missing or wrong credential.
func NewAuthentication(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return newError(Authentication, message)
}

// NewNotFound reports that the named resource does not exist.
func NewNotFound(resource string) *Error {
	if resource == "" {
		resource = "Resource"
	}
	return newError(NotFound, fmt.Sprintf("%s not found", resource))
}

// Wrap classifies err as internal unless it already carries a kind.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: Internal, Status: http.StatusInternalServerError, Err: err}
}

// KindOf returns the kind of err, Internal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}
