package middleware

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/errors"
)

// SharedSecret validates the shared-secret header on protected routes.
// It is mounted only when auth is enabled in configuration; when disabled the
// analysis route carries no secret check at all. Comparison is constant-time.
func SharedSecret(cfg config.AuthConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(cfg.Header)
			if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.Secret)) != 1 {
				requestID := FromContext(r.Context())
				logger.Warn("shared secret check failed",
					zap.String("request_id", requestID),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Bool("header_present", got != ""),
				)
				errors.WriteError(w, errors.NewAuthError(requestID, "Unauthorized", nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
