package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/interfaces/http/dto"
	"github.com/poflow/backend/internal/interfaces/http/middleware"
)

// AccountHandler serves the billing accounts derived during reconciliation
type AccountHandler struct {
	BaseHandler
	repo reconcile.AccountRepository
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(repo reconcile.AccountRepository) *AccountHandler {
	return &AccountHandler{repo: repo}
}

// RegisterRoutes registers account routes on the API group
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.GET("", h.List)
	accounts.PUT("/:id/review", h.Review)
}

// List returns the tenant's derived accounts, optionally only those
// flagged for review
func (h *AccountHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)

	var req dto.AccountListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}

	accounts, err := h.repo.ListByTenant(c.Request.Context(), tenantID, req.NeedsReview)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToAccountResponses(accounts))
}

// Review confirms the account mapping for a project and clears the
// needs_review flag
func (h *AccountHandler) Review(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid account ID")
		return
	}

	var req dto.ReviewAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "account_name is required")
		return
	}

	ctx := c.Request.Context()
	account, err := h.repo.FindByID(ctx, tenantID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := account.Review(req.AccountName); err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.repo.Save(ctx, account); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToAccountResponse(account))
}
