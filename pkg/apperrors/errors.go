package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the failure classes surfaced to clients
type ErrorType string

const (
	// ErrorTypeConnection indicates the store is unreachable or rejected the credentials
	ErrorTypeConnection ErrorType = "CONNECTION"

	// ErrorTypeBadRequest indicates a missing or malformed form field
	ErrorTypeBadRequest ErrorType = "BAD_REQUEST"

	// ErrorTypeStorage indicates a query, scan or commit failure
	ErrorTypeStorage ErrorType = "STORAGE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a new connection error
func NewConnectionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConnection,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewStorageError creates a new storage error
func NewStorageError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// Is reports whether err carries an AppError of the given type anywhere in its chain.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// StatusCode maps an error to the HTTP status returned to the client.
// Anything that is not a bad request is a server error.
func StatusCode(err error) int {
	if Is(err, ErrorTypeBadRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
