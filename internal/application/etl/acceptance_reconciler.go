package etl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
)

// AcceptanceReconciler replaces the tenant's acceptance rows with the
// staged batch. Acceptances are a point-in-time snapshot of the source
// system, so every upload is a destructive full replace: no per-row
// upsert, no audit trail. Rows that cannot be constructed are logged and
// skipped; their staging flags are left untouched.
type AcceptanceReconciler struct {
	db       *gorm.DB
	logger   *zap.Logger
	tenantID uuid.UUID
	batchID  uuid.UUID
	stats    *Stats
}

// NewAcceptanceReconciler creates a reconciler for one staged batch
func NewAcceptanceReconciler(db *gorm.DB, logger *zap.Logger, tenantID, batchID uuid.UUID, stats *Stats) *AcceptanceReconciler {
	return &AcceptanceReconciler{
		db:       db,
		logger:   logger.With(zap.String("batch_id", batchID.String())),
		tenantID: tenantID,
		batchID:  batchID,
		stats:    stats,
	}
}

// TransformAndLoad deletes the tenant's acceptances and inserts one row per
// valid staged row, all in a single transaction. Returns false when the
// replace cannot be committed.
func (r *AcceptanceReconciler) TransformAndLoad(ctx context.Context) bool {
	var rows []reconcile.AcceptanceStaging
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND batch_id = ? AND is_valid = ? AND is_processed = ?",
			r.tenantID, r.batchID, true, false).
		Order("staging_id").
		Find(&rows).Error; err != nil {
		r.logger.Error("failed to read staging rows", zap.Error(err))
		return false
	}

	records := make([]*reconcile.Acceptance, 0, len(rows))
	processedIDs := make([]int64, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		acceptance, err := buildAcceptance(r.tenantID, row)
		if err != nil {
			r.stats.FailedRows++
			r.logger.Warn("skipping acceptance row",
				zap.Int("row", row.RowNumber),
				zap.Error(err),
			)
			continue
		}
		records = append(records, acceptance)
		processedIDs = append(processedIDs, row.StagingID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", r.tenantID).
			Delete(&reconcile.Acceptance{}).Error; err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, stagingBatchSize).Error; err != nil {
				return err
			}
		}
		if len(processedIDs) > 0 {
			now := time.Now()
			if err := tx.Model(&reconcile.AcceptanceStaging{}).
				Where("staging_id IN ?", processedIDs).
				Updates(map[string]any{"is_processed": true, "processed_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("acceptance replace failed", zap.Error(err))
		return false
	}

	r.stats.NewRecords += len(records)

	r.logger.Info("replaced acceptances",
		zap.Int("inserted", len(records)),
		zap.Int("skipped", len(rows)-len(records)),
	)
	return true
}

// buildAcceptance coerces one staged row into the typed schema. The only
// construct failure is a shipment number that is not numeric; required
// presence was already validated at staging time.
func buildAcceptance(tenantID uuid.UUID, s *reconcile.AcceptanceStaging) (*reconcile.Acceptance, error) {
	shipmentNo := intField(s.ShipmentNo)
	if shipmentNo == nil {
		return nil, fmt.Errorf("shipment number %q is not numeric", deref(s.ShipmentNo))
	}

	a := reconcile.NewAcceptance(
		tenantID,
		strings.TrimSpace(deref(s.AcceptanceNo)),
		strings.TrimSpace(deref(s.PONumber)),
		strings.TrimSpace(deref(s.POLineNo)),
		*shipmentNo,
	)

	a.Status = strField(s.Status, 50)
	a.RejectedReason = textField(s.RejectedReason)
	a.ItemDescription = textField(s.ItemDescription)
	a.ItemDescriptionLocal = textField(s.ItemDescriptionLocal)
	a.ProjectCode = strField(s.ProjectCode, 100)
	a.ProjectName = strField(s.ProjectName, 255)
	a.SiteCode = strField(s.SiteCode, 100)
	a.SiteName = strField(s.SiteName, 255)
	a.SiteID = strField(s.SiteID, 255)
	a.EngineeringCode = strField(s.EngineeringCode, 100)
	a.BusinessType = textField(s.BusinessType)
	a.ProductCategory = textField(s.ProductCategory)
	a.RequestedQty = intField(s.RequestedQty)
	a.AcceptanceQty = intField(s.AcceptanceQty)
	a.UnitPrice = decField(s.UnitPrice)
	a.MilestoneType = strField(s.MilestoneType, 100)
	a.AcceptanceMilestone = strField(s.AcceptanceMilestone, 100)
	a.CancelRemainingQty = textField(s.CancelRemainingQty)
	a.BiddingArea = strField(s.BiddingArea, 255)
	a.Customer = textField(s.Customer)
	a.RepOffice = strField(s.RepOffice, 255)
	a.Unit = strField(s.Unit, 50)
	a.SubprojectCode = strField(s.SubprojectCode, 100)
	a.EngineeringCategory = strField(s.EngineeringCategory, 255)
	a.CenterArea = strField(s.CenterArea, 255)
	a.PlannedCompletionDate = dateField(s.PlannedCompletionDate)
	a.ActualCompletionDate = dateField(s.ActualCompletionDate)
	a.Approver = strField(s.Approver, 255)
	a.CurrentHandler = textField(s.CurrentHandler)
	a.ApprovalProgress = strField(s.ApprovalProgress, 100)
	a.ISDPProject = strField(s.ISDPProject, 100)
	a.ApplicationSubmitted = dateField(s.ApplicationSubmitted)
	a.ApplicationProcessed = dateField(s.ApplicationProcessed)
	a.HeaderRemarks = textField(s.HeaderRemarks)
	a.Remarks = textField(s.Remarks)
	a.ServiceCode = decField(s.ServiceCode)
	a.PaymentPercentage = strField(s.PaymentPercentage, 50)

	return a, nil
}
