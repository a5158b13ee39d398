package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/domain/shared"
)

// setupAccountTestDB creates an in-memory SQLite database for testing
func setupAccountTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&reconcile.Account{}))
	return db
}

func TestGormAccountRepository_FindByID(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	account := reconcile.NewAccount(tenantID, "IAM Core Network")
	require.NoError(t, db.Create(account).Error)

	t.Run("finds existing account", func(t *testing.T) {
		found, err := repo.FindByID(ctx, tenantID, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "IAM Core Network", found.ProjectName)
		assert.Equal(t, "IAM Account", found.AccountName)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("wrong tenant is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New(), account.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormAccountRepository_ListByTenant(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	require.NoError(t, db.Create(reconcile.NewAccount(tenantID, "Orange FTTH Rollout")).Error)
	require.NoError(t, db.Create(reconcile.NewAccount(tenantID, "Harbor Modernization")).Error)
	require.NoError(t, db.Create(reconcile.NewAccount(uuid.New(), "INWI Backbone")).Error)

	t.Run("lists all accounts for tenant", func(t *testing.T) {
		accounts, err := repo.ListByTenant(ctx, tenantID, false)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "Harbor Modernization", accounts[0].ProjectName)
		assert.Equal(t, "Orange FTTH Rollout", accounts[1].ProjectName)
	})

	t.Run("filters to accounts needing review", func(t *testing.T) {
		accounts, err := repo.ListByTenant(ctx, tenantID, true)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "Harbor Modernization", accounts[0].ProjectName)
		assert.True(t, accounts[0].NeedsReview)
	})
}

func TestGormAccountRepository_Save(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	account := reconcile.NewAccount(tenantID, "Harbor Modernization")
	require.NoError(t, db.Create(account).Error)

	require.NoError(t, account.Review("Harbor Account"))
	require.NoError(t, repo.Save(ctx, account))

	stored, err := repo.FindByID(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Account", stored.AccountName)
	assert.False(t, stored.NeedsReview)
}
