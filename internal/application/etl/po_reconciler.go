package etl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
)

// POReconciler promotes one batch of valid staged PO rows into the
// authoritative purchase_orders table. Each row runs in its own
// transaction so a bad row rolls back alone: its staging record is marked
// processed+invalid with the failure message, and the batch continues.
type POReconciler struct {
	db       *gorm.DB
	logger   *zap.Logger
	tenantID uuid.UUID
	batchID  uuid.UUID
	stats    *Stats
}

// NewPOReconciler creates a reconciler for one staged batch
func NewPOReconciler(db *gorm.DB, logger *zap.Logger, tenantID, batchID uuid.UUID, stats *Stats) *POReconciler {
	return &POReconciler{
		db:       db,
		logger:   logger.With(zap.String("batch_id", batchID.String())),
		tenantID: tenantID,
		batchID:  batchID,
		stats:    stats,
	}
}

// TransformAndLoad reconciles the batch's valid unprocessed staging rows in
// storage order. Returns false only on batch-level failure; already
// committed rows stay committed.
func (r *POReconciler) TransformAndLoad(ctx context.Context) bool {
	var rows []reconcile.POStaging
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND batch_id = ? AND is_valid = ? AND is_processed = ?",
			r.tenantID, r.batchID, true, false).
		Order("staging_id").
		Find(&rows).Error; err != nil {
		r.logger.Error("failed to read staging rows", zap.Error(err))
		return false
	}

	reconciled := 0
	for i := range rows {
		row := &rows[i]
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return r.reconcileRow(tx, row)
		})
		if err != nil {
			r.stats.FailedRows++
			r.logger.Warn("row reconciliation failed",
				zap.Int("row", row.RowNumber),
				zap.Error(err),
			)
			r.failStagingRow(ctx, row, err)
			continue
		}
		reconciled++
	}

	r.logger.Info("reconciled batch",
		zap.Int("reconciled", reconciled),
		zap.Int("failed", r.stats.FailedRows),
		zap.Int("inserted", r.stats.NewRecords),
		zap.Int("updated", r.stats.UpdatedRecords),
	)
	return true
}

func (r *POReconciler) reconcileRow(tx *gorm.DB, staging *reconcile.POStaging) error {
	projectName := reconcile.NormalizeProjectName(deref(staging.ProjectName))
	if err := r.ensureAccount(tx, projectName); err != nil {
		return err
	}

	poNumber := strings.TrimSpace(deref(staging.PONumber))
	poLineNo := strings.TrimSpace(deref(staging.POLineNo))

	var po reconcile.PurchaseOrder
	err := tx.Where("tenant_id = ? AND po_number = ? AND po_line_no = ?",
		r.tenantID, poNumber, poLineNo).
		First(&po).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := reconcile.NewPurchaseOrder(r.tenantID, poNumber, poLineNo)
		applyPOFields(created, staging)
		if err := tx.Create(created).Error; err != nil {
			return err
		}
		audit := reconcile.NewInsertAudit(r.tenantID, r.batchID, poNumber, poLineNo, created.Snapshot())
		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		r.stats.NewRecords++

	case err != nil:
		return err

	default:
		before := po.Snapshot()
		applyPOFields(&po, staging)
		after := po.Snapshot()
		if changed := reconcile.ChangedFields(before, after); len(changed) > 0 {
			if err := tx.Save(&po).Error; err != nil {
				return err
			}
			audit := reconcile.NewUpdateAudit(r.tenantID, r.batchID, poNumber, poLineNo, before, after, changed)
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
			r.stats.UpdatedRecords++
		}
	}

	staging.MarkProcessed(time.Now())
	return tx.Model(staging).
		Select("is_processed", "processed_at").
		Updates(staging).Error
}

// ensureAccount makes the derived billing account for the project exist,
// classifying it on first sight. Idempotent per (tenant, project_name).
func (r *POReconciler) ensureAccount(tx *gorm.DB, projectName string) error {
	var account reconcile.Account
	err := tx.Where("tenant_id = ? AND project_name = ?", r.tenantID, projectName).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(reconcile.NewAccount(r.tenantID, projectName)).Error
	}
	return err
}

// failStagingRow marks a staging row terminally failed outside the rolled
// back row transaction, keeping the failure message as row data.
func (r *POReconciler) failStagingRow(ctx context.Context, row *reconcile.POStaging, cause error) {
	row.MarkFailed(time.Now(), cause.Error())
	if err := r.db.WithContext(ctx).Model(row).
		Select("is_processed", "is_valid", "validation_errors", "processed_at").
		Updates(row).Error; err != nil {
		r.logger.Error("failed to flag staging row",
			zap.Int64("staging_id", row.StagingID),
			zap.Error(err),
		)
	}
}

func applyPOFields(po *reconcile.PurchaseOrder, s *reconcile.POStaging) {
	po.ProjectName = strField(s.ProjectName, 255)
	po.ProjectCode = strField(s.ProjectCode, 100)
	po.SiteName = strField(s.SiteName, 255)
	po.SiteCode = strField(s.SiteCode, 100)
	po.ItemCode = strField(s.ItemCode, 100)
	po.ItemDescription = textField(s.ItemDescription)
	po.ItemDescriptionLocal = textField(s.ItemDescriptionLocal)
	po.UnitPrice = decField(s.UnitPrice)
	po.RequestedQty = intField(s.RequestedQty)
	po.DueQty = intField(s.DueQty)
	po.BilledQty = intField(s.BilledQty)
	po.QuantityCancel = intField(s.QuantityCancel)
	po.LineAmount = decField(s.LineAmount)
	po.Unit = strField(s.Unit, 50)
	po.Currency = strField(s.Currency, 10)
	po.TaxRate = decField(s.TaxRate)
	po.POStatus = strField(s.POStatus, 50)
	po.PaymentTerms = strField(s.PaymentTerms, 255)
	po.PaymentMethod = strField(s.PaymentMethod, 100)
	po.Customer = strField(s.Customer, 255)
	po.RepOffice = strField(s.RepOffice, 255)
	po.SubcontractNo = strField(s.SubcontractNo, 100)
	po.PRNo = strField(s.PRNo, 100)
	po.SalesContractNo = strField(s.SalesContractNo, 100)
	po.VersionNo = strField(s.VersionNo, 50)
	po.ShipmentNo = strField(s.ShipmentNo, 100)
	po.EngineeringCode = strField(s.EngineeringCode, 100)
	po.EngineeringName = strField(s.EngineeringName, 255)
	po.SubprojectCode = strField(s.SubprojectCode, 100)
	po.Category = strField(s.Category, 255)
	po.CenterArea = strField(s.CenterArea, 255)
	po.ProductCategory = strField(s.ProductCategory, 255)
	po.BiddingArea = strField(s.BiddingArea, 255)
	po.BillTo = textField(s.BillTo)
	po.ShipTo = textField(s.ShipTo)
	po.NoteToReceiver = textField(s.NoteToReceiver)
	po.FFBuyer = strField(s.FFBuyer, 255)
	po.FOBLookupCode = strField(s.FOBLookupCode, 100)
	po.PublishDate = dateField(s.PublishDate)
	po.StartDate = dateField(s.StartDate)
	po.EndDate = dateField(s.EndDate)
	po.ExpireDate = dateField(s.ExpireDate)
	po.AcceptanceDate = dateField(s.AcceptanceDate)
	po.AcceptanceDate1 = dateField(s.AcceptanceDate1)
	po.ChangeHistory = textField(s.ChangeHistory)
	po.PRPOAutomation = textField(s.PRPOAutomation)
}
