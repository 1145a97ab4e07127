package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeNotFound   ErrorType = "not_found"

	// Domain errors of the recommendation pipeline.

	// ErrorTypeUnreadableImage means the classifier could not process the
	// input image (corrupt bytes, unsupported format). Client-input error.
	ErrorTypeUnreadableImage ErrorType = "unreadable_image"
	// ErrorTypeUnknownSoilType means a soil-type identifier is absent from
	// the knowledge base. When the identifier came from the classifier this
	// indicates model/knowledge-base version skew, not bad input.
	ErrorTypeUnknownSoilType ErrorType = "unknown_soil_type"
	// ErrorTypeInvalidParameter means a supplied environmental value is
	// non-numeric or violates a hard sanity bound. Client-input error.
	ErrorTypeInvalidParameter ErrorType = "invalid_parameter"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
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

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewUnreadableImageError creates an error for images the classifier cannot
// decode or process.
func NewUnreadableImageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnreadableImage,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewUnknownSoilTypeError creates an error for soil-type identifiers absent
// from the knowledge base. Surfaced as a server-side consistency error: a
// classifier emitting an unmapped label must never be silently ignored.
func NewUnknownSoilTypeError(soilType string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownSoilType,
		Message:    fmt.Sprintf("unknown soil type %q", soilType),
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInvalidParameterError creates an error for environmental values that
// fail hard sanity bounds.
func NewInvalidParameterError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidParameter,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsUnknownSoilType reports whether err is an unknown-soil-type error.
func IsUnknownSoilType(err error) bool {
	return IsType(err, ErrorTypeUnknownSoilType)
}

// IsUnreadableImage reports whether err is an unreadable-image error.
func IsUnreadableImage(err error) bool {
	return IsType(err, ErrorTypeUnreadableImage)
}

// IsInvalidParameter reports whether err is an invalid-parameter error.
func IsInvalidParameter(err error) bool {
	return IsType(err, ErrorTypeInvalidParameter)
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
