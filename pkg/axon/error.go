package axon

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP error with status code and message.
// Handlers return it to control the status adapters respond with.
type HTTPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// NewHTTPError creates a new HTTPError. An empty message falls back to the
// status text for code.
func NewHTTPError(code int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message}
}

// NewHTTPErrorWithDetails creates a new HTTPError with additional details
func NewHTTPErrorWithDetails(code int, message string, details interface{}) *HTTPError {
	err := NewHTTPError(code, message)
	err.Details = details
	return err
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

// ErrUnauthorized creates a 401 Unauthorized error
func ErrUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// ErrForbidden creates a 403 Forbidden error
func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

// ErrConflict creates a 409 Conflict error
func ErrConflict(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message)
}

// ErrUnprocessableEntity creates a 422 Unprocessable Entity error
func ErrUnprocessableEntity(message string) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message)
}

// ErrInternalServerError creates a 500 Internal Server Error
func ErrInternalServerError(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message)
}

// ErrorResponse maps a handler error onto the status and JSON body an
// adapter writes. Errors that are not an *HTTPError become a 500.
func ErrorResponse(err error) (int, *HTTPError) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr
	}
	return http.StatusInternalServerError, ErrInternalServerError(err.Error())
}
