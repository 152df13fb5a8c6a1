package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
	"techrent/internal/middleware"
	"techrent/internal/pkg/response"
	"techrent/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking runs with optional authentication. A missing requester is reported
// before anything about the body.
func (h *Handler) CreateBooking(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !actor.Authenticated() {
		h.fail(c, rental.ErrAuthenticationRequired)
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INCOMPLETE_INPUT", "Invalid request body", validator.Fields(err))
		return
	}

	view, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": view})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	views, err := h.service.ListMine(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": views})
}

func (h *Handler) GetBooking(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": view})
}

func (h *Handler) GetHistory(c *gin.Context) {
	events, err := h.service.History(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": events})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	h.transition(c, rental.ActionCancel)
}

// AdminTransition handles /admin/bookings/:id/:action for approve, reject and complete.
func (h *Handler) AdminTransition(c *gin.Context) {
	action, ok := rental.ParseAction(c.Param("action"))
	if !ok || action == rental.ActionCancel {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unknown action")
		return
	}
	h.transition(c, action)
}

func (h *Handler) transition(c *gin.Context, action rental.Action) {
	view, err := h.service.Transition(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), action)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": view})
}

func (h *Handler) AdminListBookings(c *gin.Context) {
	f := ListFilter{
		Status: rental.Status(c.Query("status")),
		Search: c.Query("q"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	page, err := h.service.ListAll(c.Request.Context(), middleware.ActorFrom(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) GetQuote(c *gin.Context) {
	id, ok := parseEquipmentID(c)
	if !ok {
		return
	}
	start, ok := queryDate(c, "start")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end")
	if !ok {
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), id, start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	id, ok := parseEquipmentID(c)
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}

	view, err := h.service.Availability(c.Request.Context(), id, from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availability": view})
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; wrapped errors come before the sentinels they wrap.
var errorMappings = []errorMapping{
	{rental.ErrAuthenticationRequired, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Please sign in to book equipment"},
	{ErrStartInPast, http.StatusBadRequest, "INCOMPLETE_INPUT", "Start date cannot be in the past"},
	{rental.ErrInvalidDateRange, http.StatusBadRequest, "INCOMPLETE_INPUT", "End date cannot be before start date"},
	{rental.ErrIncompleteInput, http.StatusBadRequest, "INCOMPLETE_INPUT", "Please select both start and end dates"},
	{ErrWindowTooWide, http.StatusBadRequest, "INCOMPLETE_INPUT", "Availability window is limited to one year"},
	{rental.ErrDateRangeUnavailable, http.StatusConflict, "DATE_RANGE_UNAVAILABLE", "Some of the selected dates are already booked"},
	{rental.ErrEquipmentUnavailable, http.StatusConflict, "EQUIPMENT_UNAVAILABLE", "This equipment is not currently offered"},
	{rental.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION", "Booking cannot move to that status from its current one"},
	{rental.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do that"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Booking not found"},
	{catalog.ErrEquipmentNotFound, http.StatusNotFound, "NOT_FOUND", "Equipment not found"},
	{ErrPersistFailed, http.StatusInternalServerError, "PERSIST_FAILED", "Booking could not be saved, please try again"},
}

func (h *Handler) fail(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			if m.status >= http.StatusInternalServerError {
				_ = c.Error(err)
			}
			response.Error(c, m.status, m.code, m.message)
			return
		}
	}
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
}

func parseEquipmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid equipment id")
		return 0, false
	}
	return id, true
}

// queryDate parses an optional date query parameter; absent yields nil.
func queryDate(c *gin.Context, name string) (*rental.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := rental.ParseDate(raw)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INCOMPLETE_INPUT", "Invalid date", gin.H{name: raw})
		return nil, false
	}
	return &d, true
}
