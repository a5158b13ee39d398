package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/infrastructure/persistence"
	"github.com/poflow/backend/internal/interfaces/http/middleware"
)

func newUploadHistoryRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&reconcile.UploadHistory{}))

	h := NewUploadHistoryHandler(persistence.NewGormUploadHistoryRepository(db))

	engine := gin.New()
	engine.Use(middleware.Tenant())
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine, db
}

func TestUploadHistoryHandler(t *testing.T) {
	t.Run("lists attempts newest first with pagination meta", func(t *testing.T) {
		engine, db := newUploadHistoryRouter(t)
		tenantID := uuid.New()

		for i, name := range []string{"first.csv", "second.csv", "third.csv"} {
			h := reconcile.NewUploadHistory(tenantID, name, reconcile.DocPurchaseOrder, 10+i, reconcile.UploadStatusSuccess)
			h.UploadedAt = time.Now().Add(time.Duration(i) * time.Minute)
			require.NoError(t, db.Create(h).Error)
		}
		other := reconcile.NewUploadHistory(uuid.New(), "other.csv", reconcile.DocAcceptance, 1, reconcile.UploadStatusFailed)
		require.NoError(t, db.Create(other).Error)

		req := httptest.NewRequest("GET", "/api/v1/upload-history?page=1&page_size=2", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    []struct {
				FileName string `json:"file_name"`
				Status   string `json:"status"`
			} `json:"data"`
			Meta struct {
				Total      int64 `json:"total"`
				Page       int   `json:"page"`
				PageSize   int   `json:"page_size"`
				TotalPages int   `json:"total_pages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "third.csv", resp.Data[0].FileName)
		assert.Equal(t, "second.csv", resp.Data[1].FileName)
		assert.Equal(t, int64(3), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})

	t.Run("defaults pagination when no query is given", func(t *testing.T) {
		engine, db := newUploadHistoryRouter(t)
		tenantID := uuid.New()

		h := reconcile.NewUploadHistory(tenantID, "only.csv", reconcile.DocAcceptance, 5, reconcile.UploadStatusPartial)
		require.NoError(t, db.Create(h).Error)

		req := httptest.NewRequest("GET", "/api/v1/upload-history", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "only.csv")
		assert.Contains(t, w.Body.String(), "partial")
	})

	t.Run("rejects out of range page size", func(t *testing.T) {
		engine, _ := newUploadHistoryRouter(t)

		req := httptest.NewRequest("GET", "/api/v1/upload-history?page_size=9999", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
