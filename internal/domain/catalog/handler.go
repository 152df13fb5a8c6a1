package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"techrent/internal/pkg/response"
	"techrent/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/* ---------- CATEGORY HANDLERS ---------- */

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := h.service.Category(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"category": category})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"category": category})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"category": category})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

/* ---------- EQUIPMENT HANDLERS ---------- */

// GetEquipment lists available equipment. grouped=true returns it grouped by category.
func (h *Handler) GetEquipment(c *gin.Context) {
	if c.Query("grouped") == "true" {
		groups, err := h.service.Grouped(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"groups": groups})
		return
	}

	page, err := h.service.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) GetFeatured(c *gin.Context) {
	items, err := h.service.Featured(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetEquipmentByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"equipment": detail})
}

func (h *Handler) AdminListEquipment(c *gin.Context) {
	page, err := h.service.AdminList(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) CreateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if !bind(c, &req) {
		return
	}
	e, err := h.service.CreateEquipment(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"equipment": toView(*e)})
}

func (h *Handler) UpdateEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req EquipmentRequest
	if !bind(c, &req) {
		return
	}
	e, err := h.service.UpdateEquipment(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"equipment": toView(*e)})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AvailabilityRequest
	if !bind(c, &req) {
		return
	}
	e, err := h.service.SetAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"equipment": toView(*e)})
}

func (h *Handler) DeleteEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEquipment(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

/* ---------- helpers ---------- */

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Category not found")
	case errors.Is(err, ErrEquipmentNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Equipment not found")
	case errors.Is(err, ErrCategoryExists):
		response.Error(c, http.StatusConflict, "CATEGORY_EXISTS", "A category with this name already exists")
	case errors.Is(err, ErrCategoryInUse):
		response.Error(c, http.StatusConflict, "CATEGORY_IN_USE", "Category still has equipment")
	case errors.Is(err, ErrEquipmentInUse):
		response.Error(c, http.StatusConflict, "EQUIPMENT_IN_USE", "Equipment has bookings; switch it off instead")
	case errors.Is(err, ErrInvalidRate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Daily rate must not be negative")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Fields(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func filterFromQuery(c *gin.Context) EquipmentFilter {
	f := EquipmentFilter{
		Search:    c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	f.CategoryID, _ = strconv.ParseInt(c.Query("category_id"), 10, 64)
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return f
}
