package etl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/infrastructure/persistence"
)

// setupPipelineDB creates an in-memory SQLite database with the full schema
func setupPipelineDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&reconcile.PurchaseOrder{},
		&reconcile.POStaging{},
		&reconcile.POAuditLog{},
		&reconcile.Acceptance{},
		&reconcile.AcceptanceStaging{},
		&reconcile.Account{},
		&reconcile.UploadHistory{},
	))
	return db
}

func newTestProcessor(t *testing.T, db *gorm.DB) *Processor {
	t.Helper()
	return NewProcessor(db, zap.NewNop(), persistence.NewGormUploadHistoryRepository(db))
}

func writeUpload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const poCSVHeader = "PO No.,PO Line No.,Project Name,Item Code,Unit Price,Due Qty,Publish Date\n"

func TestProcessor_PurchaseOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("stages, reconciles and records a clean upload", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		path := writeUpload(t, "po.csv", poCSVHeader+
			"PO-1001,10,Orange FTTH Rollout,ITM-1,\"1,250.00\",5,2024-03-15\n"+
			"PO-1001,20,Orange FTTH Rollout,ITM-2,80.50,2,15/03/2024\n")

		result := p.ProcessFile(ctx, path, tenantID, reconcile.DocPurchaseOrder, "po.csv")

		assert.True(t, result.Success)
		assert.Equal(t, 2, result.Stats.TotalRows)
		assert.Equal(t, 2, result.Stats.ProcessedRows)
		assert.Equal(t, 2, result.Stats.NewRecords)
		assert.Equal(t, 0, result.Stats.FailedRows)

		var pos []reconcile.PurchaseOrder
		require.NoError(t, db.Where("tenant_id = ?", tenantID).Order("po_line_no").Find(&pos).Error)
		require.Len(t, pos, 2)
		assert.Equal(t, "PO-1001", pos[0].PONumber)
		require.NotNil(t, pos[0].UnitPrice)
		assert.Equal(t, "1250", pos[0].UnitPrice.String())
		require.NotNil(t, pos[0].DueQty)
		assert.Equal(t, 5, *pos[0].DueQty)
		require.NotNil(t, pos[0].PublishDate)
		assert.Equal(t, "2024-03-15", pos[0].PublishDate.Format("2006-01-02"))
		// Day-first layout lands on the same date
		require.NotNil(t, pos[1].PublishDate)
		assert.Equal(t, "2024-03-15", pos[1].PublishDate.Format("2006-01-02"))

		// INSERT audit entry per created line
		var audits []reconcile.POAuditLog
		require.NoError(t, db.Where("tenant_id = ? AND batch_id = ?", tenantID, result.BatchID).Find(&audits).Error)
		require.Len(t, audits, 2)
		for _, a := range audits {
			assert.Equal(t, reconcile.AuditActionInsert, a.Action)
			assert.Equal(t, reconcile.ChangeSourceFileUpload, a.ChangeSource)
			assert.NotEmpty(t, a.NewValues)
			assert.Empty(t, a.OldValues)
		}

		// Derived account, classified without review
		var account reconcile.Account
		require.NoError(t, db.Where("tenant_id = ? AND project_name = ?", tenantID, "Orange FTTH Rollout").First(&account).Error)
		assert.Equal(t, "Orange Account", account.AccountName)
		assert.False(t, account.NeedsReview)

		// Staging rows are terminal
		var staged []reconcile.POStaging
		require.NoError(t, db.Where("batch_id = ?", result.BatchID).Find(&staged).Error)
		require.Len(t, staged, 2)
		for _, s := range staged {
			assert.True(t, s.IsProcessed)
			assert.True(t, s.IsValid)
			assert.NotNil(t, s.ProcessedAt)
		}

		// One history row, success
		var history []reconcile.UploadHistory
		require.NoError(t, db.Where("tenant_id = ?", tenantID).Find(&history).Error)
		require.Len(t, history, 1)
		assert.Equal(t, reconcile.UploadStatusSuccess, history[0].Status)
		assert.Equal(t, 2, history[0].TotalRows)
		assert.Equal(t, history[0].ID, result.UploadID)

		// Temp file is gone
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("invalid rows are staged but not reconciled", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		path := writeUpload(t, "po.csv", poCSVHeader+
			"PO-1001,10,Projet Inwi Nord,ITM-1,10,1,2024-01-01\n"+
			",20,Projet Inwi Nord,ITM-2,10,1,2024-01-01\n")

		result := p.ProcessFile(ctx, path, tenantID, reconcile.DocPurchaseOrder, "po.csv")

		assert.True(t, result.Success)
		assert.Equal(t, 2, result.Stats.TotalRows)
		assert.Equal(t, 2, result.Stats.ProcessedRows)
		require.Len(t, result.Stats.ValidationErrors, 1)
		assert.Equal(t, 2, result.Stats.ValidationErrors[0].Row)
		assert.Equal(t, "po_number", result.Stats.ValidationErrors[0].Field)
		assert.Equal(t, "PO Number is required", result.Stats.ValidationErrors[0].Message)

		// The invalid row stays staged, unprocessed, with its flag and
		// issues intact after the bulk insert
		var invalid reconcile.POStaging
		require.NoError(t, db.Where("batch_id = ? AND is_valid = ?", result.BatchID, false).First(&invalid).Error)
		assert.False(t, invalid.IsValid)
		assert.False(t, invalid.IsProcessed)
		require.Len(t, invalid.ValidationErrors, 1)
		assert.Equal(t, "PO Number is required", invalid.ValidationErrors[0].Message)

		var count int64
		require.NoError(t, db.Model(&reconcile.PurchaseOrder{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		// No PO line was promoted with an empty business key
		var emptyKey int64
		require.NoError(t, db.Model(&reconcile.PurchaseOrder{}).Where("po_number = ?", "").Count(&emptyKey).Error)
		assert.EqualValues(t, 0, emptyKey)
	})

	t.Run("re-upload of identical data writes no update audit", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()
		content := poCSVHeader + "PO-1001,10,IAM Core,ITM-1,1000.50,5,2024-03-15\n"

		first := p.ProcessFile(ctx, writeUpload(t, "po.csv", content), tenantID, reconcile.DocPurchaseOrder, "po.csv")
		require.True(t, first.Success)

		second := p.ProcessFile(ctx, writeUpload(t, "po.csv", content), tenantID, reconcile.DocPurchaseOrder, "po.csv")
		require.True(t, second.Success)
		assert.Equal(t, 0, second.Stats.NewRecords)
		assert.Equal(t, 0, second.Stats.UpdatedRecords)

		var audits int64
		require.NoError(t, db.Model(&reconcile.POAuditLog{}).
			Where("tenant_id = ? AND action = ?", tenantID, reconcile.AuditActionUpdate).
			Count(&audits).Error)
		assert.EqualValues(t, 0, audits)

		// Still exactly one PO line
		var count int64
		require.NoError(t, db.Model(&reconcile.PurchaseOrder{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("changed value produces one update audit with field diff", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		first := p.ProcessFile(ctx,
			writeUpload(t, "po.csv", poCSVHeader+"PO-1001,10,IAM Core,ITM-1,1000.50,5,2024-03-15\n"),
			tenantID, reconcile.DocPurchaseOrder, "po.csv")
		require.True(t, first.Success)

		second := p.ProcessFile(ctx,
			writeUpload(t, "po.csv", poCSVHeader+"PO-1001,10,IAM Core,ITM-1,1000.50,7,2024-03-15\n"),
			tenantID, reconcile.DocPurchaseOrder, "po.csv")
		require.True(t, second.Success)
		assert.Equal(t, 1, second.Stats.UpdatedRecords)

		var audit reconcile.POAuditLog
		require.NoError(t, db.Where("tenant_id = ? AND action = ?", tenantID, reconcile.AuditActionUpdate).First(&audit).Error)
		assert.Equal(t, []string{"due_qty"}, audit.ChangedFields)
		assert.EqualValues(t, 5, audit.OldValues["due_qty"])
		assert.EqualValues(t, 7, audit.NewValues["due_qty"])
	})

	t.Run("unmatched and blank projects flag accounts for review", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		path := writeUpload(t, "po.csv", poCSVHeader+
			"PO-1001,10,Harbor Modernization,ITM-1,10,1,2024-01-01\n"+
			"PO-1002,10,,ITM-2,10,1,2024-01-01\n")

		result := p.ProcessFile(ctx, path, tenantID, reconcile.DocPurchaseOrder, "po.csv")
		require.True(t, result.Success)

		var other reconcile.Account
		require.NoError(t, db.Where("tenant_id = ? AND project_name = ?", tenantID, "Harbor Modernization").First(&other).Error)
		assert.Equal(t, "Other", other.AccountName)
		assert.True(t, other.NeedsReview)

		var unknown reconcile.Account
		require.NoError(t, db.Where("tenant_id = ? AND project_name = ?", tenantID, reconcile.UnknownProject).First(&unknown).Error)
		assert.True(t, unknown.NeedsReview)
	})

	t.Run("garbage numeric and date cells coerce to nil instead of failing", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		path := writeUpload(t, "po.csv", poCSVHeader+
			"PO-1001,10,IAM Core,ITM-1,not-a-price,lots,someday\n")

		result := p.ProcessFile(ctx, path, tenantID, reconcile.DocPurchaseOrder, "po.csv")
		require.True(t, result.Success)
		assert.Equal(t, 1, result.Stats.ProcessedRows)

		var po reconcile.PurchaseOrder
		require.NoError(t, db.Where("tenant_id = ?", tenantID).First(&po).Error)
		assert.Nil(t, po.UnitPrice)
		assert.Nil(t, po.DueQty)
		assert.Nil(t, po.PublishDate)
	})

	t.Run("unreadable file records a failed attempt", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		path := writeUpload(t, "po.csv", "PO No.,Descripci\xf3n\nPO-1,Caf\xe9\n")
		result := p.ProcessFile(ctx, path, tenantID, reconcile.DocPurchaseOrder, "po.csv")

		assert.False(t, result.Success)
		assert.Equal(t, 0, result.Stats.ProcessedRows)

		var history reconcile.UploadHistory
		require.NoError(t, db.Where("tenant_id = ?", tenantID).First(&history).Error)
		assert.Equal(t, reconcile.UploadStatusFailed, history.Status)
	})

	t.Run("blank file rows do not shift row numbers", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		path := writeUpload(t, "po.csv", poCSVHeader+
			"PO-1001,10,IAM Core,ITM-1,1,1,2024-01-01\n"+
			",,,,,,\n"+
			",20,IAM Core,ITM-2,1,1,2024-01-01\n")

		result := p.ProcessFile(ctx, path, tenantID, reconcile.DocPurchaseOrder, "po.csv")
		require.True(t, result.Success)
		assert.Equal(t, 2, result.Stats.TotalRows)
		require.Len(t, result.Stats.ValidationErrors, 1)
		assert.Equal(t, 2, result.Stats.ValidationErrors[0].Row)
	})
}

const acceptanceCSVHeader = "AcceptanceNo.,PONo.,POLineNo.,ShipmentNo.,Status,AcceptanceQty\n"

func TestProcessor_Acceptances(t *testing.T) {
	ctx := context.Background()

	t.Run("upload fully replaces the tenant's acceptances", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		first := p.ProcessFile(ctx,
			writeUpload(t, "acc.csv", acceptanceCSVHeader+
				"ACC-1,PO-1001,10,1,Accepted,5\n"+
				"ACC-2,PO-1001,20,1,Accepted,2\n"),
			tenantID, reconcile.DocAcceptance, "acc.csv")
		require.True(t, first.Success)
		assert.Equal(t, 2, first.Stats.NewRecords)

		second := p.ProcessFile(ctx,
			writeUpload(t, "acc.csv", acceptanceCSVHeader+
				"ACC-9,PO-2000,10,3,Pending,1\n"),
			tenantID, reconcile.DocAcceptance, "acc.csv")
		require.True(t, second.Success)

		var rows []reconcile.Acceptance
		require.NoError(t, db.Where("tenant_id = ?", tenantID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, "ACC-9", rows[0].AcceptanceNo)
		assert.Equal(t, 3, rows[0].ShipmentNo)

		// Replacement writes no audit trail
		var audits int64
		require.NoError(t, db.Model(&reconcile.POAuditLog{}).Where("tenant_id = ?", tenantID).Count(&audits).Error)
		assert.EqualValues(t, 0, audits)
	})

	t.Run("non-numeric shipment number skips the row without touching staging flags", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		result := p.ProcessFile(ctx,
			writeUpload(t, "acc.csv", acceptanceCSVHeader+
				"ACC-1,PO-1001,10,abc,Accepted,5\n"+
				"ACC-2,PO-1001,20,2,Accepted,1\n"),
			tenantID, reconcile.DocAcceptance, "acc.csv")
		require.True(t, result.Success)
		assert.Equal(t, 2, result.Stats.ProcessedRows)
		assert.Equal(t, 1, result.Stats.FailedRows)

		var rows []reconcile.Acceptance
		require.NoError(t, db.Where("tenant_id = ?", tenantID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, "ACC-2", rows[0].AcceptanceNo)

		// The skipped row keeps its pristine staging flags
		var skipped reconcile.AcceptanceStaging
		require.NoError(t, db.Where("batch_id = ? AND row_number = ?", result.BatchID, 1).First(&skipped).Error)
		assert.False(t, skipped.IsProcessed)
		assert.True(t, skipped.IsValid)

		var processed reconcile.AcceptanceStaging
		require.NoError(t, db.Where("batch_id = ? AND row_number = ?", result.BatchID, 2).First(&processed).Error)
		assert.True(t, processed.IsProcessed)
	})

	t.Run("missing required fields keep the row out of the replace", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		result := p.ProcessFile(ctx,
			writeUpload(t, "acc.csv", acceptanceCSVHeader+
				",PO-1001,10,1,Accepted,5\n"),
			tenantID, reconcile.DocAcceptance, "acc.csv")

		require.True(t, result.Success)
		assert.Equal(t, 1, result.Stats.ProcessedRows)
		require.Len(t, result.Stats.ValidationErrors, 1)
		assert.Equal(t, "Acceptance Number is required", result.Stats.ValidationErrors[0].Message)

		var count int64
		require.NoError(t, db.Model(&reconcile.Acceptance{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("replace failure after staging records a partial upload", func(t *testing.T) {
		db := setupPipelineDB(t)
		p := newTestProcessor(t, db)
		tenantID := uuid.New()

		// Break the authoritative table so staging succeeds but the
		// replace transaction cannot commit
		require.NoError(t, db.Migrator().DropTable(&reconcile.Acceptance{}))

		result := p.ProcessFile(ctx,
			writeUpload(t, "acc.csv", acceptanceCSVHeader+
				"ACC-1,PO-1001,10,1,Accepted,5\n"+
				"ACC-2,PO-1001,20,1,Accepted,2\n"),
			tenantID, reconcile.DocAcceptance, "acc.csv")

		assert.False(t, result.Success)
		assert.Equal(t, 2, result.Stats.ProcessedRows)

		var staged int64
		require.NoError(t, db.Model(&reconcile.AcceptanceStaging{}).
			Where("batch_id = ?", result.BatchID).Count(&staged).Error)
		assert.EqualValues(t, 2, staged)

		var history reconcile.UploadHistory
		require.NoError(t, db.Where("tenant_id = ?", tenantID).First(&history).Error)
		assert.Equal(t, reconcile.UploadStatusPartial, history.Status)
	})
}

func TestStagingValidityFlagRoundTrip(t *testing.T) {
	db := setupPipelineDB(t)
	tenantID := uuid.New()
	batchID := uuid.New()

	require.NoError(t, db.Create(&reconcile.POStaging{
		TenantID:  tenantID,
		BatchID:   batchID,
		RowNumber: 1,
		IsValid:   false,
		ValidationErrors: []reconcile.RowIssue{
			{Row: 1, Field: "po_number", Message: "PO Number is required"},
		},
		CreatedAt: time.Now(),
	}).Error)

	var row reconcile.POStaging
	require.NoError(t, db.Where("batch_id = ?", batchID).First(&row).Error)
	assert.False(t, row.IsValid)
}

func TestProcessor_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	db := setupPipelineDB(t)
	p := newTestProcessor(t, db)

	tenantA := uuid.New()
	tenantB := uuid.New()
	content := poCSVHeader + "PO-1001,10,IAM Core,ITM-1,10,1,2024-01-01\n"

	require.True(t, p.ProcessFile(ctx, writeUpload(t, "a.csv", content), tenantA, reconcile.DocPurchaseOrder, "a.csv").Success)
	require.True(t, p.ProcessFile(ctx, writeUpload(t, "b.csv", content), tenantB, reconcile.DocPurchaseOrder, "b.csv").Success)

	// Same natural key, one row per tenant
	var count int64
	require.NoError(t, db.Model(&reconcile.PurchaseOrder{}).Where("po_number = ?", "PO-1001").Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var accounts int64
	require.NoError(t, db.Model(&reconcile.Account{}).Where("tenant_id = ?", tenantA).Count(&accounts).Error)
	assert.EqualValues(t, 1, accounts)
}
