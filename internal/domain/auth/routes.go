package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts register and login. They exist only with local identities.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	if !h.service.LocalEnabled() {
		return
	}
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.PUT("/users/:id/role", h.SetRole)
}
