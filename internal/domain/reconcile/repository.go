package reconcile

import (
	"context"

	"github.com/google/uuid"

	"github.com/poflow/backend/internal/domain/shared"
)

// UploadHistoryRepository persists and lists upload attempt summaries
type UploadHistoryRepository interface {
	Create(ctx context.Context, history *UploadHistory) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[UploadHistory], error)
}

// AccountRepository reads and updates derived billing accounts
type AccountRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, needsReviewOnly bool) ([]Account, error)
	Save(ctx context.Context, account *Account) error
}
