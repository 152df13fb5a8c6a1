package booking

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/equipment/:id/availability", h.GetAvailability)
	v1.GET("/equipment/:id/quote", h.GetQuote)
}

// RegisterCreateRoute mounts POST /bookings on a group with optional authentication.
func (h *Handler) RegisterCreateRoute(optional *gin.RouterGroup) {
	optional.POST("/bookings", h.CreateBooking)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	bookings := protected.Group("/bookings")
	{
		bookings.GET("/mine", h.GetMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/history", h.GetHistory)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/bookings", h.AdminListBookings)
	admin.POST("/bookings/:id/:action", h.AdminTransition)
}
