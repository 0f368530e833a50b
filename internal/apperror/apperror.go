// Package apperror defines the error taxonomy shared by the stores, the
// attachment sinks and the HTTP handlers. Handlers map these sentinels to
// status codes with Status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrAuth               = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func Auth(message string) *AppError {
	return &AppError{Err: ErrAuth, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func NotFound(resource string, id any) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found with id %v", resource, id)}
}

func BackendUnavailable() *AppError {
	return &AppError{Err: ErrBackendUnavailable, Message: "database is unavailable"}
}

// Status returns the HTTP status code for err. Unclassified errors map to
// 500 and should be logged in full by the caller.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
