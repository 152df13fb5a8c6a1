package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techrent/internal/domain/rental"
	"techrent/internal/pkg/response"
)

// RequireRole ensures that the authenticated actor has the given role.
// It must run after Authenticate.
func RequireRole(required rental.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if !actor.Authenticated() {
			response.Abort(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Authentication required")
			return
		}

		if actor.Role != required {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(rental.RoleAdmin)
}
