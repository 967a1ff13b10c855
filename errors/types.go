package errors

import (
	"net/http"
)

// NewError creates a new APIError with the given parameters.
// It is a general-purpose constructor that allows full control over
// the error's fields. For most cases, you should use one of the
// specialized constructors below.
//
// Example:
//
//	err := NewError(InternalError, "AI analysis failed", 500, "req_123", nil, backendErr)
func NewError(errType ErrorType, message string, code int, requestID string, details map[string]interface{}, err error) *APIError {
	return &APIError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Details:   details,
		err:       err,
	}
}

// NewAuthError creates an authentication error with appropriate defaults.
// Use this for shared-secret check failures on protected routes.
//
// Example:
//
//	err := NewAuthError("req_123", "Unauthorized", nil)
func NewAuthError(requestID, message string, err error) *APIError {
	return &APIError{
		Type:      AuthError,
		Message:   message,
		Code:      http.StatusUnauthorized,
		RequestID: requestID,
		err:       err,
	}
}

// NewValidationError creates a validation error with appropriate defaults.
// Use this for any request validation failures, such as:
//   - Both description and image missing
//   - Malformed request bodies
//   - Undecodable image payloads
//
// Example:
//
//	err := NewValidationError("req_123", "Description or image required", map[string]interface{}{
//	    "fields": []string{"description", "imageBase64"},
//	})
func NewValidationError(requestID, message string, validationDetails map[string]interface{}) *APIError {
	return &APIError{
		Type:      ValidationError,
		Message:   message,
		Code:      http.StatusBadRequest,
		RequestID: requestID,
		Details:   validationDetails,
	}
}

// NewProviderError creates a provider error with appropriate defaults.
// Use this when the AI backend call fails for any reason: network errors,
// backend authentication failures, timeouts, or an empty reply. The message
// is what reaches the client, so keep it generic; the cause goes in err.
//
// Example:
//
//	err := NewProviderError("req_123", "AI analysis failed", backendErr)
func NewProviderError(requestID string, message string, err error) *APIError {
	return &APIError{
		Type:      ProviderError,
		Message:   message,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewInternalError creates an internal server error with appropriate defaults.
// Use this for unexpected errors that are not covered by other error types:
//   - Panics
//   - Response encoding failures
//   - Unexpected system failures
//
// Example:
//
//	err := NewInternalError("req_123", panicErr)
func NewInternalError(requestID string, err error) *APIError {
	return &APIError{
		Type:      InternalError,
		Message:   "An internal error occurred",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}
