package services

import (
	"fmt"
	"net/http"
)

// ErrorKind discriminates service failures so the HTTP layer can map
// each one to a status code deterministically.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindPrecondition
	KindValidation
	KindCapacity
	KindQuota
	KindConflict
	KindAuthorization
	KindTooLate
	KindInternal
)

// ServiceError is the discriminated result every service operation
// returns on failure. Message is safe to show to callers; Err holds
// the underlying cause for diagnostics and is never serialized.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to the status code the API layer
// should answer with.
func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func NotFoundf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Preconditionf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Capacityf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindCapacity, Message: fmt.Sprintf(format, args...)}
}

func Quotaf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindQuota, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func TooLatef(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindTooLate, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected repository or infra failure. The
// caller-facing message stays generic; the cause is preserved for
// logging.
func Internal(msg string, err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: msg, Err: err}
}

// AsServiceError normalizes any error to a ServiceError, wrapping
// unknown errors as internal.
func AsServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*ServiceError); ok {
		return se
	}
	return Internal("unexpected error", err)
}
