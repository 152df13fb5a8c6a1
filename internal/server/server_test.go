package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techrent/internal/database"
	"techrent/internal/domain/auth"
	"techrent/internal/domain/rental"
	"techrent/internal/identity"
	"techrent/internal/pkg/jwt"
)

type suite struct {
	t      *testing.T
	router *gin.Engine
	roles  *auth.Repository
}

type apiResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, Models()...))

	tokens := jwt.New("e2e-secret", time.Hour)
	roles := auth.NewRepository(db)
	router := NewRouter(Deps{
		DB:       db,
		Resolver: identity.NewLocalResolver(tokens, roles),
		Tokens:   tokens,
		Location: time.UTC,
	})
	return &suite{t: t, router: router, roles: roles}
}

func (s *suite) do(method, path, token string, body any) (int, apiResponse) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

// register creates an account and returns its id and token.
func (s *suite) register(name, email string) (string, string) {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, code)
	user := resp.Data["user"].(map[string]any)
	return user["id"].(string), resp.Data["access_token"].(string)
}

func day(offset int) string {
	return rental.Today(time.Now(), time.UTC).AddDays(offset).String()
}

func TestRentalFlow(t *testing.T) {
	s := setupSuite(t)

	adminID, adminToken := s.register("Ada Admin", "ada@example.com")
	require.NoError(t, s.roles.SetRole(context.Background(), adminID, rental.RoleAdmin))
	_, annToken := s.register("Ann", "ann@example.com")
	_, bobToken := s.register("Bob", "bob@example.com")

	code, _ := s.do(http.MethodPost, "/api/v1/admin/categories", annToken, gin.H{"name": "Cameras"})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(http.MethodPost, "/api/v1/admin/categories", adminToken, gin.H{"name": "Cameras"})
	require.Equal(t, http.StatusCreated, code)
	categoryID := resp.Data["category"].(map[string]any)["id"].(float64)

	code, resp = s.do(http.MethodPost, "/api/v1/admin/equipment", adminToken, gin.H{
		"category_id": categoryID, "type": "Camera", "model": "Sony A7 III", "daily_rate": 49.99,
	})
	require.Equal(t, http.StatusCreated, code)
	equipmentID := resp.Data["equipment"].(map[string]any)["id"].(float64)

	booking := gin.H{"equipment_id": equipmentID, "start_date": day(5), "end_date": day(7)}

	code, resp = s.do(http.MethodPost, "/api/v1/bookings", "", booking)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", resp.Error.Code)

	code, resp = s.do(http.MethodPost, "/api/v1/bookings", annToken, booking)
	require.Equal(t, http.StatusCreated, code)
	created := resp.Data["booking"].(map[string]any)
	bookingID := created["id"].(string)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, 149.97, created["total_price"])

	code, resp = s.do(http.MethodPost, "/api/v1/bookings", bobToken, gin.H{
		"equipment_id": equipmentID, "start_date": day(7), "end_date": day(9),
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DATE_RANGE_UNAVAILABLE", resp.Error.Code)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/v1/equipment/%d/availability", int64(equipmentID)), "", nil)
	require.Equal(t, http.StatusOK, code)
	blocked := resp.Data["availability"].(map[string]any)["blocked_dates"].([]any)
	assert.Equal(t, []any{day(5), day(6), day(7)}, blocked)

	code, _ = s.do(http.MethodPost, "/api/v1/admin/bookings/"+bookingID+"/approve", annToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(http.MethodPost, "/api/v1/admin/bookings/"+bookingID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "approved", resp.Data["booking"].(map[string]any)["status"])

	code, resp = s.do(http.MethodPost, "/api/v1/bookings/"+bookingID+"/cancel", annToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)

	code, resp = s.do(http.MethodGet, "/api/v1/bookings/mine", annToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data["bookings"], 1)

	code, resp = s.do(http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	dashboard := resp.Data["dashboard"].(map[string]any)
	assert.Equal(t, float64(0), dashboard["pending_bookings"])
	assert.Len(t, dashboard["recent"], 1)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	s := setupSuite(t)

	code, _ := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := setupSuite(t)

	code, resp := s.do(http.MethodGet, "/api/v1/bookings/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", resp.Error.Code)

	code, _ = s.do(http.MethodGet, "/api/v1/admin/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
