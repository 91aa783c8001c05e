package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the domain error taxonomy. Handlers map them to HTTP
// status codes; errors.Is works across wrapping.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

// AppError is a domain error carrying an HTTP status code and a
// human-readable message. Anything that is not an AppError is treated as an
// internal error at the response boundary.
type AppError struct {
	Err        error
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(message string) *AppError {
	return &AppError{Err: ErrInvalidInput, StatusCode: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, StatusCode: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, StatusCode: http.StatusForbidden, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Err: ErrNotFound, StatusCode: http.StatusNotFound, Message: resource + " not found"}
}

func Conflict(field string) *AppError {
	return &AppError{Err: ErrConflict, StatusCode: http.StatusConflict, Message: field + " already exists"}
}

func Internal(message string) *AppError {
	return &AppError{Err: ErrInternal, StatusCode: http.StatusInternalServerError, Message: message}
}

// Wrap attaches an underlying cause while keeping the AppError's status and
// message for the response.
func Wrap(app *AppError, cause error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", app.Err, cause),
		StatusCode: app.StatusCode,
		Message:    app.Message,
	}
}

// StatusOf returns the HTTP status for err: the AppError's own code, or 500
// for anything unclassified.
func StatusOf(err error) int {
	var app *AppError
	if errors.As(err, &app) {
		return app.StatusCode
	}
	return http.StatusInternalServerError
}

// MessageOf returns the message safe to surface to clients. Unclassified
// errors get a generic message so internals never leak.
func MessageOf(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Message
	}
	return "Internal Server Error"
}
