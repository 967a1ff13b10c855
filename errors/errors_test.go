package errors

import (
	"errors"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "basic error without wrapped error",
			err: &APIError{
				Type:    ValidationError,
				Message: "Description or image required",
			},
			want: "validation_error: Description or image required",
		},
		{
			name: "error with wrapped error",
			err: &APIError{
				Type:    ProviderError,
				Message: "AI analysis failed",
				err:     errors.New("rpc error: deadline exceeded"),
			},
			want: "provider_error: AI analysis failed: rpc error: deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("APIError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	err1 := &APIError{Type: AuthError, Message: "test1"}
	err2 := &APIError{Type: AuthError, Message: "test2"}
	err3 := &APIError{Type: ValidationError, Message: "test3"}

	if !err1.Is(err2) {
		t.Error("Expected err1.Is(err2) to be true for same error type")
	}

	if err1.Is(err3) {
		t.Error("Expected err1.Is(err3) to be false for different error types")
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	err := &APIError{
		Type:    InternalError,
		Message: "outer error",
		err:     innerErr,
	}

	if unwrapped := err.Unwrap(); unwrapped != innerErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, innerErr)
	}
}
