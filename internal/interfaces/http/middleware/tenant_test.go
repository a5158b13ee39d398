package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTenantRouter(mw gin.HandlerFunc) (*gin.Engine, *uuid.UUID) {
	var captured uuid.UUID
	engine := gin.New()
	engine.Use(mw)
	engine.GET("/resource", func(c *gin.Context) {
		captured = MustGetTenantID(c)
		c.Status(http.StatusOK)
	})
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine, &captured
}

func TestTenantMiddleware(t *testing.T) {
	t.Run("extracts tenant from header", func(t *testing.T) {
		engine, captured := newTenantRouter(Tenant())
		tenantID := uuid.New()

		req := httptest.NewRequest("GET", "/resource", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, *captured)
	})

	t.Run("falls back to the development tenant", func(t *testing.T) {
		engine, captured := newTenantRouter(Tenant())

		req := httptest.NewRequest("GET", "/resource", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, DevTenantID, *captured)
	})

	t.Run("rejects malformed tenant id", func(t *testing.T) {
		engine, _ := newTenantRouter(Tenant())

		req := httptest.NewRequest("GET", "/resource", nil)
		req.Header.Set(TenantHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("required mode rejects missing header", func(t *testing.T) {
		engine, _ := newTenantRouter(RequiredTenant())

		req := httptest.NewRequest("GET", "/resource", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("required mode accepts a valid header", func(t *testing.T) {
		engine, captured := newTenantRouter(RequiredTenant())
		tenantID := uuid.New()

		req := httptest.NewRequest("GET", "/resource", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, *captured)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		engine, _ := newTenantRouter(RequiredTenant())

		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetTenantID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetTenantID(c)
	assert.False(t, ok)

	tenantID := uuid.New()
	c.Set(TenantIDKey, tenantID)

	got, ok := GetTenantID(c)
	require.True(t, ok)
	assert.Equal(t, tenantID, got)
}

func TestMustGetTenantIDPanics(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Panics(t, func() { MustGetTenantID(c) })
}
