package middleware

import (
	"net/http"

	"github.com/platewise/platewise/errors"
)

// MaxBytes caps the request body size. A declared Content-Length above the
// cap is rejected immediately; bodies without a declared length are capped by
// http.MaxBytesReader, which makes a later read in the handler fail with
// *http.MaxBytesError.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				errors.ErrorWithType(w, "Request body too large", errors.ValidationError, http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
