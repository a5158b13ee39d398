package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/infrastructure/tabular"
)

const stagingBatchSize = 500

// Loader lands one uploaded file into the staging table for its document
// type. Every row is staged, valid or not: validation issues are stored on
// the row itself so reconciliation can skip it while keeping it
// inspectable. One Loader instance serves exactly one upload batch.
type Loader struct {
	db       *gorm.DB
	logger   *zap.Logger
	doc      reconcile.DocumentType
	tenantID uuid.UUID
	batchID  uuid.UUID
	stats    *Stats
}

// NewLoader creates a Loader with a fresh batch ID
func NewLoader(db *gorm.DB, logger *zap.Logger, doc reconcile.DocumentType, tenantID uuid.UUID, stats *Stats) *Loader {
	batchID := uuid.New()
	return &Loader{
		db:       db,
		logger:   logger.With(zap.String("batch_id", batchID.String()), zap.String("doc_type", string(doc))),
		doc:      doc,
		tenantID: tenantID,
		batchID:  batchID,
		stats:    stats,
	}
}

// BatchID returns the batch this loader stages rows under
func (l *Loader) BatchID() uuid.UUID {
	return l.batchID
}

// Load reads the file at path and bulk-inserts its rows into staging in a
// single transaction. Returns false when the file cannot be read or the
// insert fails; individual bad rows never fail the load.
func (l *Loader) Load(ctx context.Context, path string) bool {
	table, err := tabular.ReadFile(path)
	if err != nil {
		l.logger.Error("failed to read upload", zap.String("path", path), zap.Error(err))
		return false
	}

	rows := tabular.MapColumns(l.doc, table)
	l.stats.TotalRows = len(rows)

	var insertErr error
	switch l.doc {
	case reconcile.DocPurchaseOrder:
		insertErr = l.stagePORows(ctx, rows)
	case reconcile.DocAcceptance:
		insertErr = l.stageAcceptanceRows(ctx, rows)
	default:
		l.logger.Error("unknown document type")
		return false
	}

	if insertErr != nil {
		l.logger.Error("failed to stage rows", zap.Error(insertErr))
		return false
	}

	l.logger.Info("staged upload",
		zap.Int("total_rows", l.stats.TotalRows),
		zap.Int("staged_rows", l.stats.ProcessedRows),
		zap.Int("failed_rows", l.stats.FailedRows),
		zap.Int("invalid_rows", len(l.stats.ValidationErrors)),
	)
	return true
}

func (l *Loader) stagePORows(ctx context.Context, rows []tabular.MappedRow) error {
	records := make([]*reconcile.POStaging, 0, len(rows))
	for i, row := range rows {
		rowNumber := i + 1
		record, err := l.buildPORow(rowNumber, row)
		if err != nil {
			l.stats.FailedRows++
			l.logger.Warn("skipping unstageable row", zap.Int("row", rowNumber), zap.Error(err))
			continue
		}
		records = append(records, record)
		l.stats.ProcessedRows++
	}
	if len(records) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, stagingBatchSize).Error
	})
}

func (l *Loader) stageAcceptanceRows(ctx context.Context, rows []tabular.MappedRow) error {
	records := make([]*reconcile.AcceptanceStaging, 0, len(rows))
	for i, row := range rows {
		rowNumber := i + 1
		record, err := l.buildAcceptanceRow(rowNumber, row)
		if err != nil {
			l.stats.FailedRows++
			l.logger.Warn("skipping unstageable row", zap.Int("row", rowNumber), zap.Error(err))
			continue
		}
		records = append(records, record)
		l.stats.ProcessedRows++
	}
	if len(records) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, stagingBatchSize).Error
	})
}

// validateRow runs required-field validation and records any issues on the
// upload stats. Returns the issues for storage on the staging row.
func (l *Loader) validateRow(rowNumber int, row tabular.MappedRow) []reconcile.RowIssue {
	issues := l.doc.Validate(rowNumber, row.Fields())
	l.stats.ValidationErrors = append(l.stats.ValidationErrors, issues...)
	return issues
}

func (l *Loader) buildPORow(rowNumber int, row tabular.MappedRow) (record *reconcile.POStaging, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("row assembly panic: %v", r)
		}
	}()

	issues := l.validateRow(rowNumber, row)
	record = &reconcile.POStaging{
		TenantID:         l.tenantID,
		BatchID:          l.batchID,
		RowNumber:        rowNumber,
		IsValid:          len(issues) == 0,
		ValidationErrors: issues,
		CreatedAt:        time.Now(),

		SourceRecordID:       row.Get("id"),
		PONumber:             row.Get("po_number"),
		POLineNo:             row.Get("po_line_no"),
		ProjectName:          row.Get("project_name"),
		ProjectCode:          row.Get("project_code"),
		SiteName:             row.Get("site_name"),
		SiteCode:             row.Get("site_code"),
		ItemCode:             row.Get("item_code"),
		ItemDescription:      row.Get("item_description"),
		ItemDescriptionLocal: row.Get("item_description_local"),
		UnitPrice:            row.Get("unit_price"),
		RequestedQty:         row.Get("requested_qty"),
		DueQty:               row.Get("due_qty"),
		BilledQty:            row.Get("billed_qty"),
		QuantityCancel:       row.Get("quantity_cancel"),
		LineAmount:           row.Get("line_amount"),
		Unit:                 row.Get("unit"),
		Currency:             row.Get("currency"),
		TaxRate:              row.Get("tax_rate"),
		POStatus:             row.Get("po_status"),
		PaymentTerms:         row.Get("payment_terms"),
		PaymentMethod:        row.Get("payment_method"),
		Customer:             row.Get("customer"),
		RepOffice:            row.Get("rep_office"),
		SubcontractNo:        row.Get("subcontract_no"),
		PRNo:                 row.Get("pr_no"),
		SalesContractNo:      row.Get("sales_contract_no"),
		VersionNo:            row.Get("version_no"),
		ShipmentNo:           row.Get("shipment_no"),
		EngineeringCode:      row.Get("engineering_code"),
		EngineeringName:      row.Get("engineering_name"),
		SubprojectCode:       row.Get("subproject_code"),
		Category:             row.Get("category"),
		CenterArea:           row.Get("center_area"),
		ProductCategory:      row.Get("product_category"),
		BiddingArea:          row.Get("bidding_area"),
		BillTo:               row.Get("bill_to"),
		ShipTo:               row.Get("ship_to"),
		NoteToReceiver:       row.Get("note_to_receiver"),
		FFBuyer:              row.Get("ff_buyer"),
		FOBLookupCode:        row.Get("fob_lookup_code"),
		PublishDate:          row.Get("publish_date"),
		StartDate:            row.Get("start_date"),
		EndDate:              row.Get("end_date"),
		ExpireDate:           row.Get("expire_date"),
		AcceptanceDate:       row.Get("acceptance_date"),
		AcceptanceDate1:      row.Get("acceptance_date_1"),
		ChangeHistory:        row.Get("change_history"),
		PRPOAutomation:       row.Get("pr_po_automation"),
	}
	return record, nil
}

func (l *Loader) buildAcceptanceRow(rowNumber int, row tabular.MappedRow) (record *reconcile.AcceptanceStaging, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("row assembly panic: %v", r)
		}
	}()

	issues := l.validateRow(rowNumber, row)
	record = &reconcile.AcceptanceStaging{
		TenantID:         l.tenantID,
		BatchID:          l.batchID,
		RowNumber:        rowNumber,
		IsValid:          len(issues) == 0,
		ValidationErrors: issues,
		CreatedAt:        time.Now(),

		SourceRecordID:        row.Get("id"),
		AcceptanceNo:          row.Get("acceptance_no"),
		Status:                row.Get("status"),
		RejectedReason:        row.Get("rejected_reason"),
		PONumber:              row.Get("po_number"),
		POLineNo:              row.Get("po_line_no"),
		ShipmentNo:            row.Get("shipment_no"),
		ItemDescription:       row.Get("item_description"),
		ItemDescriptionLocal:  row.Get("item_description_local"),
		ProjectCode:           row.Get("project_code"),
		ProjectName:           row.Get("project_name"),
		SiteCode:              row.Get("site_code"),
		SiteName:              row.Get("site_name"),
		SiteID:                row.Get("site_id"),
		EngineeringCode:       row.Get("engineering_code"),
		BusinessType:          row.Get("business_type"),
		ProductCategory:       row.Get("product_category"),
		RequestedQty:          row.Get("requested_qty"),
		AcceptanceQty:         row.Get("acceptance_qty"),
		UnitPrice:             row.Get("unit_price"),
		MilestoneType:         row.Get("milestone_type"),
		AcceptanceMilestone:   row.Get("acceptance_milestone"),
		CancelRemainingQty:    row.Get("cancel_remaining_qty"),
		BiddingArea:           row.Get("bidding_area"),
		Customer:              row.Get("customer"),
		RepOffice:             row.Get("rep_office"),
		Unit:                  row.Get("unit"),
		SubprojectCode:        row.Get("subproject_code"),
		EngineeringCategory:   row.Get("engineering_category"),
		CenterArea:            row.Get("center_area"),
		PlannedCompletionDate: row.Get("planned_completion_date"),
		ActualCompletionDate:  row.Get("actual_completion_date"),
		Approver:              row.Get("approver"),
		CurrentHandler:        row.Get("current_handler"),
		ApprovalProgress:      row.Get("approval_progress"),
		ISDPProject:           row.Get("isdp_project"),
		ApplicationSubmitted:  row.Get("application_submitted"),
		ApplicationProcessed:  row.Get("application_processed"),
		HeaderRemarks:         row.Get("header_remarks"),
		Remarks:               row.Get("remarks"),
		ServiceCode:           row.Get("service_code"),
		PaymentPercentage:     row.Get("payment_percentage"),
	}
	return record, nil
}
