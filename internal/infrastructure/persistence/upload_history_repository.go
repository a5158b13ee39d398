package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/domain/shared"
)

// uploadHistorySortFields contains allowed sort fields for upload history listings
var uploadHistorySortFields = map[string]bool{
	"created_at":  true,
	"uploaded_at": true,
	"file_name":   true,
	"file_type":   true,
	"total_rows":  true,
	"status":      true,
}

// GormUploadHistoryRepository implements reconcile.UploadHistoryRepository using GORM
type GormUploadHistoryRepository struct {
	db *gorm.DB
}

var _ reconcile.UploadHistoryRepository = (*GormUploadHistoryRepository)(nil)

// NewGormUploadHistoryRepository creates a new GormUploadHistoryRepository
func NewGormUploadHistoryRepository(db *gorm.DB) *GormUploadHistoryRepository {
	return &GormUploadHistoryRepository{db: db}
}

// Create persists a new upload history record
func (r *GormUploadHistoryRepository) Create(ctx context.Context, history *reconcile.UploadHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// ListByTenant returns a tenant's upload history, most recent first by default
func (r *GormUploadHistoryRepository) ListByTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	filter shared.Filter,
) (shared.Paginated[reconcile.UploadHistory], error) {
	query := r.db.WithContext(ctx).
		Model(&reconcile.UploadHistory{}).
		Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[reconcile.UploadHistory]{}, err
	}

	orderBy := filter.OrderBy
	if !uploadHistorySortFields[orderBy] {
		orderBy = "uploaded_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}

	var items []reconcile.UploadHistory
	if err := query.
		Order(orderBy + " " + dir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&items).Error; err != nil {
		return shared.Paginated[reconcile.UploadHistory]{}, err
	}

	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
