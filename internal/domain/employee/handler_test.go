package employee

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techrent/internal/database"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, &Employee{}))

	h := NewHandler(NewService(NewRepository(db)))
	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterPublicRoutes(v1)
	h.RegisterAdminRoutes(v1.Group("/admin"))
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEmployeeCRUD(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/admin/employees", Request{Name: "Dana Kim", Title: "Rental manager", Email: "Dana@Example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			Employee Employee `json:"employee"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Data.Employee.ID
	assert.NotZero(t, id)
	assert.Equal(t, "dana@example.com", created.Data.Employee.Email)

	w = do(r, http.MethodGet, "/api/v1/employees", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dana Kim")

	path := "/api/v1/admin/employees/" + jsonNumber(id)
	w = do(r, http.MethodPut, path, Request{Name: "Dana Kim", Title: "Head of rentals"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Head of rentals")

	w = do(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/v1/employees/"+jsonNumber(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestEmployeeValidation(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/admin/employees", map[string]string{"name": "", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = do(r, http.MethodGet, "/api/v1/employees/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
