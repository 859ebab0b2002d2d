// Package apperrors defines the error kinds returned by the board services.
package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindUnknown          Kind = "UNKNOWN"
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidField     Kind = "INVALID_FIELD"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindConflict         Kind = "CONFLICT"
	KindEmailSendFailure Kind = "EMAIL_SEND_FAILURE"
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
)

// HTTPStatus maps a kind to the status code used by the controllers.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidField:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindEmailSendFailure:
		return http.StatusBadGateway
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is one field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the domain error carried across service boundaries.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(msgs, "; ") + ")"
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrEmailSendFailure = &Error{Kind: KindEmailSendFailure}
)

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Unauthenticated means the caller could not be identified at all.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// InvalidFields builds a validation error from one or more field failures.
func InvalidFields(fields ...FieldError) *Error {
	return &Error{Kind: KindInvalidField, Message: "validation failed", Fields: fields}
}

// Invalid is shorthand for a single field failure.
func Invalid(field, message string) *Error {
	return InvalidFields(FieldError{Field: field, Message: message})
}

// EmailSendFailure reports a notification that could not be delivered after
// the triggering change was committed.
func EmailSendFailure(cause error) *Error {
	return &Error{Kind: KindEmailSendFailure, Message: "invitation notification could not be sent", Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldsOf returns the field failures carried by err, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
