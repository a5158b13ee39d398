package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/domain/shared"
)

// GormAccountRepository implements reconcile.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

var _ reconcile.AccountRepository = (*GormAccountRepository)(nil)

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID within a tenant
func (r *GormAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*reconcile.Account, error) {
	var account reconcile.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// ListByTenant returns a tenant's accounts ordered by project name,
// optionally restricted to those awaiting review
func (r *GormAccountRepository) ListByTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	needsReviewOnly bool,
) ([]reconcile.Account, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID)
	if needsReviewOnly {
		query = query.Where("needs_review = ?", true)
	}

	var accounts []reconcile.Account
	if err := query.Order("project_name ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save persists changes to an existing account
func (r *GormAccountRepository) Save(ctx context.Context, account *reconcile.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}
