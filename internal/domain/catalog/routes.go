package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/categories", h.GetCategories)
	v1.GET("/categories/:id", h.GetCategory)

	equipment := v1.Group("/equipment")
	{
		equipment.GET("", h.GetEquipment)
		equipment.GET("/featured", h.GetFeatured)
		equipment.GET("/:id", h.GetEquipmentByID)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)

	equipment := admin.Group("/equipment")
	{
		equipment.GET("", h.AdminListEquipment)
		equipment.POST("", h.CreateEquipment)
		equipment.PUT("/:id", h.UpdateEquipment)
		equipment.PATCH("/:id/availability", h.SetAvailability)
		equipment.DELETE("/:id", h.DeleteEquipment)
	}
}
