package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestWriteError pins the wire shape of every error response: exactly one
// "error" field carrying the message, nothing else. Internal context such as
// the error type, request ID, and wrapped cause must never appear in the body.
func TestWriteError(t *testing.T) {
	tests := []struct {
		name         string
		err          *APIError
		expectedCode int
		expectedBody string
	}{
		{
			name: "validation error",
			err: &APIError{
				Type:      ValidationError,
				Message:   "Description or image required",
				Code:      http.StatusBadRequest,
				RequestID: "test-id",
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "Description or image required",
		},
		{
			name: "provider error with details",
			err: &APIError{
				Type:      ProviderError,
				Message:   "AI analysis failed",
				Code:      http.StatusInternalServerError,
				RequestID: "test-id",
				Details: map[string]interface{}{
					"model": "gemini-1.5-flash",
				},
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: "AI analysis failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			WriteError(rr, tt.err)

			if rr.Code != tt.expectedCode {
				t.Errorf("WriteError() status = %v, want %v", rr.Code, tt.expectedCode)
			}

			contentType := rr.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("WriteError() content-type = %v, want application/json", contentType)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response body: %v", err)
			}

			if msg, ok := response["error"].(string); !ok || msg != tt.expectedBody {
				t.Errorf("WriteError() error = %v, want %v", response["error"], tt.expectedBody)
			}

			if len(response) != 1 {
				t.Errorf("WriteError() body has %d fields, want exactly 1: %v", len(response), response)
			}
		})
	}
}
