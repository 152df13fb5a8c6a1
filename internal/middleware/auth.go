package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"techrent/internal/domain/rental"
	"techrent/internal/identity"
	"techrent/internal/pkg/response"
)

const actorKey = "actor"

// Authenticate requires a valid bearer token and stores the resolved actor on the context.
func Authenticate(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Authorization header is required")
			return
		}
		if !resolveInto(c, resolver, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the actor when a token is present and lets anonymous requests
// through, leaving the decision to the handler.
func OptionalAuth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !resolveInto(c, resolver, authHeader) {
				return
			}
		}
		c.Next()
	}
}

func resolveInto(c *gin.Context, resolver identity.Resolver, authHeader string) bool {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		return false
	}

	actor, err := resolver.Resolve(c.Request.Context(), strings.TrimSpace(parts[1]))
	if err != nil {
		if errors.Is(err, identity.ErrUnavailable) {
			_ = c.Error(err)
			response.Abort(c, http.StatusServiceUnavailable, "IDENTITY_UNAVAILABLE", "Identity provider unavailable")
			return false
		}
		response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return false
	}

	SetActor(c, actor)
	return true
}

func SetActor(c *gin.Context, actor *rental.Actor) {
	c.Set(actorKey, actor)
	c.Set("user_id", actor.UserID)
	c.Set("role", string(actor.Role))
}

// ActorFrom returns the request's actor, or nil for anonymous requests.
func ActorFrom(c *gin.Context) *rental.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*rental.Actor)
	return actor
}
