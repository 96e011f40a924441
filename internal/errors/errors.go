// Package errors defines the structured API error values rendered at the
// HTTP boundary. Core packages return plain wrapped errors; the transport
// layer maps them onto these values, so no error is ever thrown across the
// core/caller boundary as a panic.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors for the calendar API surface.
var (
	ErrInvalidRequest  = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrInvalidMonth    = New(http.StatusBadRequest, "INVALID_MONTH", "Month must be formatted YYYY-MM")
	ErrInvalidYear     = New(http.StatusBadRequest, "INVALID_YEAR", "Invalid year")
	ErrInvalidDuration = New(http.StatusBadRequest, "INVALID_DURATION", "Duration must be between 1 and 30 days")
	ErrTourNotFound    = New(http.StatusNotFound, "TOUR_NOT_FOUND", "Tour not found")
	ErrDataUnavailable = New(http.StatusNotFound, "DATA_UNAVAILABLE", "No season or price data available")
	ErrInternalServer  = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// InvalidRequestWithError creates an invalid request error with details.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// NotFoundError creates a not found error for a named resource.
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse wraps an APIError in the standard envelope.
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: err}
}

// Render implements render.Renderer.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
