package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an error for propagation and HTTP mapping.
type ErrorType string

const (
	// Client-facing errors
	ErrorTypeValidation      ErrorType = "VALIDATION"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"
	ErrorTypeConflict        ErrorType = "CONFLICT"

	// Server-side errors
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError is the application error carried across layer boundaries.
// Repositories and services normalize every upstream failure into one of
// these so handlers always receive a well-defined outcome.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// NewValidationError creates an invalid-input error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not-found error for the named resource
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthenticatedError creates an error for requests without a valid identity
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewDatabaseError wraps a document-store failure
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    fmt.Sprintf("database operation failed: %s", operation),
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewExternalError wraps a failure from an external collaborator
// (identity provider, blob store).
func NewExternalError(service string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    fmt.Sprintf("external service failed: %s", service),
		Cause:      cause,
		HTTPStatus: http.StatusBadGateway,
	}
}

// IsType checks whether err is an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is an invalid-input error.
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsUnauthenticated reports whether err is an authentication failure.
func IsUnauthenticated(err error) bool {
	return IsType(err, ErrorTypeUnauthenticated)
}

// HTTPStatusOf returns the HTTP status for err, defaulting to 500 for
// anything that is not an AppError.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
