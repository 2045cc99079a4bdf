package auth

import (
	"net/http"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/pkg/logger"
)

// RequireRoles only lets callers with one of roles through. It must run
// after AuthMiddleware.
func (h *Handler) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := internal.UserFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, r, errAuthRequired)
				return
			}

			if !caller.HasRole(roles...) {
				logger.From(r.Context()).Warn("access denied: role not allowed",
					"user_id", caller.ID,
					"role", caller.Role,
					"allowed", roles)
				h.HandleServiceError(w, r, internal.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
