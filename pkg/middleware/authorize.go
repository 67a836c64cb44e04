package middleware

import (
	"net/http"

	"civicsync/pkg/response"
)

// RequireRole ensures the authenticated user has one of the allowed roles.
func RequireRole(allowedRoles ...string) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[string]bool, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = true
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(*UserClaims)
			if !ok {
				response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}

			if !allowed[claims.Role] {
				response.Error(w, http.StatusForbidden, "Forbidden", "Insufficient role")
				return
			}

			next(w, r)
		}
	}
}
