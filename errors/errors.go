// Package errors provides the error handling system for the Platewise meal
// analysis server. It includes structured error types, JSON response
// formatting, request ID tracking, and integrated logging with Uber's zap
// logger.
//
// The package is designed to be used throughout the Platewise codebase to
// provide consistent error handling and reporting. It offers several key
// features:
//
//   - A fixed single-field JSON error body ({"error": "..."}) on the wire
//   - Rich internal error context (type, code, request ID, details) that is
//     logged but never serialized to clients
//   - Integrated logging with zap
//   - Custom error types for different scenarios
//
// Basic usage:
//
//	// Simple error response
//	errors.Error(w, "Something went wrong", http.StatusBadRequest)
//
//	// Type-specific error
//	errors.ErrorWithType(w, "Description or image required", errors.ValidationError, http.StatusBadRequest)
//
// For more complex scenarios, use the error constructors in types.go:
//
//	err := errors.NewValidationError(requestID, "Description or image required", map[string]interface{}{
//	    "fields": []string{"description", "imageBase64"},
//	})
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// DefaultLogger is the default zap logger instance used throughout the package.
// It is initialized to a production configuration but can be overridden using SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger allows setting a custom zap logger instance.
// If nil is provided, the function will do nothing to prevent
// accidentally disabling logging.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType represents different categories of errors that can occur in the
// Platewise system. The type never reaches the client; it drives logging and
// metrics only.
type ErrorType string

const (
	// AuthError represents authentication and authorization failures
	AuthError ErrorType = "authentication_error"

	// ValidationError represents input validation failures
	ValidationError ErrorType = "validation_error"

	// InternalError represents unexpected internal server errors
	InternalError ErrorType = "internal_error"

	// ConfigError represents configuration-related errors
	ConfigError ErrorType = "config_error"

	// ProviderError represents errors from the AI backend
	ProviderError ErrorType = "provider_error"

	// BadReplyError represents a backend reply that could not be parsed
	BadReplyError ErrorType = "bad_reply_error"
)

// APIError is our custom error type that implements the error interface and
// provides additional context about the error. Only the Message field is ever
// serialized to clients; everything else is internal context for logging and
// debugging.
type APIError struct {
	// Type categorizes the error for logging and metrics
	Type ErrorType

	// Message is the human-readable description sent to the client
	Message string

	// Code is the HTTP status code
	Code int

	// RequestID links the error to a specific request
	RequestID string

	// Details contains additional error context for logs
	Details map[string]interface{}

	// err is the underlying error
	err error
}

// Error implements the error interface. It returns a string that
// combines the error type, message, and underlying error (if any).
func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, implementing the unwrap
// interface for error chains.
func (e *APIError) Unwrap() error {
	return e.err
}

// Is implements error matching for errors.Is, allowing type-based
// error matching while ignoring other fields.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WriteError formats and writes an APIError to an http.ResponseWriter.
// It sets the appropriate content type and status code, then writes the
// fixed single-field JSON body. Internal detail (type, request ID, cause)
// is logged, never leaked in the response.
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: err.Message}); encErr != nil {
		DefaultLogger.Error("failed to encode error response",
			zap.Error(encErr),
			zap.String("request_id", err.RequestID),
		)
	}
}

// Error is a drop-in replacement for http.Error that creates and writes
// an APIError with the InternalError type. It automatically includes
// the request ID from the response headers if available.
func Error(w http.ResponseWriter, message string, code int) {
	requestID := w.Header().Get("X-Request-ID")
	err := &APIError{
		Type:      InternalError,
		Message:   message,
		Code:      code,
		RequestID: requestID,
	}
	WriteError(w, err)
}

// ErrorWithType is like Error but allows specifying the error type.
// This is useful for correct log and metric categorization while keeping
// the simple interface of http.Error.
func ErrorWithType(w http.ResponseWriter, message string, errType ErrorType, code int) {
	requestID := w.Header().Get("X-Request-ID")
	err := &APIError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: requestID,
	}
	WriteError(w, err)
}
