package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
	"techrent/internal/middleware"
)

// actors stands in for token authentication: X-Test-User picks the caller.
var actors = map[string]*rental.Actor{"user": user, "other": other, "admin": admin}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, item := newTestRepository(t)
	equipment := stubEquipment{item.ID: item}
	svc := NewService(repo, equipment, nil, nil, time.UTC)
	svc.now = func() time.Time { return clock }
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if a, ok := actors[c.GetHeader("X-Test-User")]; ok {
			middleware.SetActor(c, a)
		}
		c.Next()
	})
	v1 := r.Group("/api/v1")
	h.RegisterPublicRoutes(v1)
	h.RegisterCreateRoute(v1)
	h.RegisterProtectedRoutes(v1)
	h.RegisterAdminRoutes(v1.Group("/admin"))
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func call(t *testing.T, r *gin.Engine, as, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		req.Header.Set("X-Test-User", as)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func createBody(start, end string) gin.H {
	return gin.H{"equipment_id": 1, "start_date": start, "end_date": end}
}

func TestHandler_CreateErrors(t *testing.T) {
	r := newTestRouter(t)

	code, env := call(t, r, "user", http.MethodPost, "/api/v1/bookings", createBody("2024-06-10", "2024-06-12"))
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)

	tests := []struct {
		name     string
		as       string
		body     any
		wantCode int
		wantErr  string
	}{
		{"anonymous", "", createBody("2024-06-20", "2024-06-21"), http.StatusUnauthorized, "AUTHENTICATION_REQUIRED"},
		{"anonymous empty body", "", gin.H{}, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED"},
		{"anonymous bad date", "", createBody("June 20", "2024-06-21"), http.StatusUnauthorized, "AUTHENTICATION_REQUIRED"},
		{"missing end", "user", gin.H{"equipment_id": 1, "start_date": "2024-06-20"}, http.StatusBadRequest, "INCOMPLETE_INPUT"},
		{"end before start", "user", createBody("2024-06-21", "2024-06-20"), http.StatusBadRequest, "INCOMPLETE_INPUT"},
		{"start in past", "user", createBody("2024-05-30", "2024-06-02"), http.StatusBadRequest, "INCOMPLETE_INPUT"},
		{"overlap", "other", createBody("2024-06-12", "2024-06-13"), http.StatusConflict, "DATE_RANGE_UNAVAILABLE"},
		{"unknown equipment", "user", gin.H{"equipment_id": 42, "start_date": "2024-06-20", "end_date": "2024-06-21"}, http.StatusNotFound, "NOT_FOUND"},
		{"bad date", "user", createBody("June 20", "2024-06-21"), http.StatusBadRequest, "INCOMPLETE_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call(t, r, tt.as, http.MethodPost, "/api/v1/bookings", tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestHandler_CreateAnonymousMalformedBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)
}

func TestHandler_Lifecycle(t *testing.T) {
	r := newTestRouter(t)

	code, env := call(t, r, "user", http.MethodPost, "/api/v1/bookings", createBody("2024-06-10", "2024-06-12"))
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Booking View `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created.Booking.ID
	require.NotEmpty(t, id)

	code, env = call(t, r, "other", http.MethodGet, "/api/v1/bookings/"+id, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, env = call(t, r, "user", http.MethodPost, "/api/v1/admin/bookings/"+id+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, r, "admin", http.MethodPost, "/api/v1/admin/bookings/"+id+"/approve", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, r, "user", http.MethodPost, "/api/v1/bookings/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	code, _ = call(t, r, "admin", http.MethodPost, "/api/v1/admin/bookings/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, r, "admin", http.MethodPost, "/api/v1/admin/bookings/"+id+"/complete", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, r, "user", http.MethodGet, "/api/v1/bookings/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, code)
	var history struct {
		History []StatusEvent `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history.History, 3)
	assert.Equal(t, rental.StatusCompleted, history.History[2].ToStatus)

	code, _ = call(t, r, "user", http.MethodGet, "/api/v1/bookings/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandler_AvailabilityAndQuote(t *testing.T) {
	r := newTestRouter(t)
	code, _ := call(t, r, "user", http.MethodPost, "/api/v1/bookings", createBody("2024-06-10", "2024-06-11"))
	require.Equal(t, http.StatusCreated, code)

	code, env := call(t, r, "", http.MethodGet, "/api/v1/equipment/1/availability?from=2024-06-09&to=2024-06-12", nil)
	require.Equal(t, http.StatusOK, code)
	var avail struct {
		Availability AvailabilityView `json:"availability"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.Equal(t, []rental.Date{june(10), june(11)}, avail.Availability.BlockedDates)

	code, env = call(t, r, "", http.MethodGet, "/api/v1/equipment/1/quote?start=2024-06-12&end=2024-06-14", nil)
	require.Equal(t, http.StatusOK, code)
	var quote struct {
		Quote QuoteView `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, rental.Cents(14997), quote.Quote.Total)
	assert.True(t, quote.Quote.Bookable)

	code, env = call(t, r, "", http.MethodGet, "/api/v1/equipment/1/quote?start=2024-06-14&end=2024-06-12", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INCOMPLETE_INPUT", env.Error.Code)

	code, _ = call(t, r, "", http.MethodGet, "/api/v1/equipment/abc/quote", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, "", http.MethodGet, "/api/v1/equipment/99/availability", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandler_AdminList(t *testing.T) {
	r := newTestRouter(t)
	code, _ := call(t, r, "user", http.MethodPost, "/api/v1/bookings", createBody("2024-06-10", "2024-06-11"))
	require.Equal(t, http.StatusCreated, code)

	code, env := call(t, r, "admin", http.MethodGet, "/api/v1/admin/bookings?status=pending&q=sony", nil)
	require.Equal(t, http.StatusOK, code)
	var page Page
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	code, env = call(t, r, "admin", http.MethodGet, "/api/v1/admin/bookings?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, "user", http.MethodGet, "/api/v1/admin/bookings", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

var _ EquipmentReader = (*catalog.Service)(nil)
