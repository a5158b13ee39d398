package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/domain/shared"
	"github.com/poflow/backend/internal/interfaces/http/dto"
	"github.com/poflow/backend/internal/interfaces/http/middleware"
)

// UploadHistoryHandler serves the per-tenant upload attempt log
type UploadHistoryHandler struct {
	BaseHandler
	repo reconcile.UploadHistoryRepository
}

// NewUploadHistoryHandler creates a new UploadHistoryHandler
func NewUploadHistoryHandler(repo reconcile.UploadHistoryRepository) *UploadHistoryHandler {
	return &UploadHistoryHandler{repo: repo}
}

// RegisterRoutes registers upload history routes on the API group
func (h *UploadHistoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/upload-history", h.List)
}

// List returns upload attempts for the tenant, newest first
func (h *UploadHistoryHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}

	page, err := h.repo.ListByTenant(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.ToUploadHistoryResponses(page.Items), page.Total, page.Page, page.PageSize)
}
