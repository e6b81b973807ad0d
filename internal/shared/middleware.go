package shared

import (
	"log/slog"
	"net/http"

	"github.com/esculape1/bizbook/internal/platform/httpx"
)

// RequireAuth rejects requests that do not carry an authenticated session.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				if logger != nil {
					logger.Warn("unauthenticated request", slog.String("path", r.URL.Path))
				}
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
