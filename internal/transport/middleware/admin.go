package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/investment-manager/internal/auth"
)

// RequireAdmin gates a whole route on the caller's admin flag. This is a
// capability check, not a per-object one: non-admins are rejected before
// any query runs.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !user.IsAdmin {
				logger.Warn("access denied: admin required",
					"user_id", user.ID,
					"path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, "administrator access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError mirrors the {code, message} envelope the handlers emit, so
// middleware rejections look the same on the wire.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
