// Package errors provides error response utilities.
package errors

import (
	"errors"
)

const RequestIDKey = "request_id"

// ErrorResponse is the fixed wire shape of every error returned to clients:
// a single "error" field with a human-readable message. Error type, request
// ID, and details are deliberately absent; they are logged server-side and
// surfaced via the X-Request-ID response header instead.
type ErrorResponse struct {
	Error string `json:"error"`
}

// As is a wrapper around errors.As for better error type assertion
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
