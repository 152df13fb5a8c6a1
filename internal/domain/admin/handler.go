package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"techrent/internal/domain/rental"
	"techrent/internal/middleware"
	"techrent/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context(), middleware.ActorFrom(c))
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"dashboard": d})
	case errors.Is(err, rental.ErrAuthenticationRequired):
		response.Error(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Authentication required")
	case errors.Is(err, rental.ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
	}
}
