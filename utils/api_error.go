package utils

import (
	"net/http"
	"runtime/debug"
)

// ApiError is the single error type handlers are allowed to surface.
// Anything else reaching the error middleware gets wrapped into a 500.
type ApiError struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
	Stack      string   `json:"-"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(statusCode int, message string, errs ...string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}

func BadRequest(message string, errs ...string) *ApiError {
	return NewApiError(http.StatusBadRequest, message, errs...)
}

func Unauthorized(message string) *ApiError {
	return NewApiError(http.StatusUnauthorized, message)
}

func NotFound(message string) *ApiError {
	return NewApiError(http.StatusNotFound, message)
}

func Conflict(message string) *ApiError {
	return NewApiError(http.StatusConflict, message)
}

func InternalError(message string) *ApiError {
	return NewApiError(http.StatusInternalServerError, message)
}

// WrapError turns any error into an ApiError, preserving the original
// message and capturing a stack for non-production diagnostics.
func WrapError(err error) *ApiError {
	if apiErr, ok := err.(*ApiError); ok {
		return apiErr
	}
	msg := "Something went wrong"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Message:    msg,
		Stack:      string(debug.Stack()),
	}
}
