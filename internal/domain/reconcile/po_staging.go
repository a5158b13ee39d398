package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// POStaging is the untyped landing record for one PO file row. Every mapped
// field is kept as raw text so malformed values stay inspectable; coercion
// only happens when the row is reconciled into purchase_orders.
type POStaging struct {
	StagingID int64     `gorm:"column:staging_id;primaryKey;autoIncrement"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index:idx_po_staging_tenant_batch"`
	BatchID   uuid.UUID `gorm:"column:batch_id;type:uuid;not null;index:idx_po_staging_tenant_batch"`

	RowNumber        int        `gorm:"column:row_number"`
	IsProcessed      bool       `gorm:"column:is_processed;default:false"`
	IsValid          bool       `gorm:"column:is_valid"`
	ValidationErrors []RowIssue `gorm:"column:validation_errors;serializer:json;type:jsonb"`
	ProcessedAt      *time.Time `gorm:"column:processed_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null"`

	SourceRecordID       *string `gorm:"column:id;size:100"`
	PONumber             *string `gorm:"column:po_number;size:100"`
	POLineNo             *string `gorm:"column:po_line_no;size:50"`
	ProjectName          *string `gorm:"column:project_name;size:255"`
	ProjectCode          *string `gorm:"column:project_code;size:100"`
	SiteName             *string `gorm:"column:site_name;size:255"`
	SiteCode             *string `gorm:"column:site_code;size:100"`
	ItemCode             *string `gorm:"column:item_code;size:100"`
	ItemDescription      *string `gorm:"column:item_description;type:text"`
	ItemDescriptionLocal *string `gorm:"column:item_description_local;type:text"`
	UnitPrice            *string `gorm:"column:unit_price;size:50"`
	RequestedQty         *string `gorm:"column:requested_qty;size:50"`
	DueQty               *string `gorm:"column:due_qty;size:50"`
	BilledQty            *string `gorm:"column:billed_qty;size:50"`
	QuantityCancel       *string `gorm:"column:quantity_cancel;size:50"`
	LineAmount           *string `gorm:"column:line_amount;size:50"`
	Unit                 *string `gorm:"column:unit;size:50"`
	Currency             *string `gorm:"column:currency;size:10"`
	TaxRate              *string `gorm:"column:tax_rate;size:50"`
	POStatus             *string `gorm:"column:po_status;size:50"`
	PaymentTerms         *string `gorm:"column:payment_terms;size:255"`
	PaymentMethod        *string `gorm:"column:payment_method;size:100"`
	Customer             *string `gorm:"column:customer;size:255"`
	RepOffice            *string `gorm:"column:rep_office;size:255"`
	SubcontractNo        *string `gorm:"column:subcontract_no;size:100"`
	PRNo                 *string `gorm:"column:pr_no;size:100"`
	SalesContractNo      *string `gorm:"column:sales_contract_no;size:100"`
	VersionNo            *string `gorm:"column:version_no;size:50"`
	ShipmentNo           *string `gorm:"column:shipment_no;size:100"`
	EngineeringCode      *string `gorm:"column:engineering_code;size:100"`
	EngineeringName      *string `gorm:"column:engineering_name;size:255"`
	SubprojectCode       *string `gorm:"column:subproject_code;size:100"`
	Category             *string `gorm:"column:category;size:255"`
	CenterArea           *string `gorm:"column:center_area;size:255"`
	ProductCategory      *string `gorm:"column:product_category;size:255"`
	BiddingArea          *string `gorm:"column:bidding_area;size:255"`
	BillTo               *string `gorm:"column:bill_to;type:text"`
	ShipTo               *string `gorm:"column:ship_to;type:text"`
	NoteToReceiver       *string `gorm:"column:note_to_receiver;type:text"`
	FFBuyer              *string `gorm:"column:ff_buyer;size:255"`
	FOBLookupCode        *string `gorm:"column:fob_lookup_code;size:100"`
	PublishDate          *string `gorm:"column:publish_date;size:50"`
	StartDate            *string `gorm:"column:start_date;size:50"`
	EndDate              *string `gorm:"column:end_date;size:50"`
	ExpireDate           *string `gorm:"column:expire_date;size:50"`
	AcceptanceDate       *string `gorm:"column:acceptance_date;size:50"`
	AcceptanceDate1      *string `gorm:"column:acceptance_date_1;size:50"`
	ChangeHistory        *string `gorm:"column:change_history;type:text"`
	PRPOAutomation       *string `gorm:"column:pr_po_automation;type:text"`
}

// TableName returns the table name for POStaging
func (POStaging) TableName() string {
	return "po_staging"
}

// MarkProcessed flips the row into its terminal processed state
func (s *POStaging) MarkProcessed(at time.Time) {
	s.IsProcessed = true
	s.ProcessedAt = &at
}

// MarkFailed records a reconciliation-time failure on the row. The row is
// terminal (processed) but flagged invalid with the failure message kept as
// data, so one bad row never aborts the batch.
func (s *POStaging) MarkFailed(at time.Time, message string) {
	s.IsProcessed = true
	s.IsValid = false
	s.ValidationErrors = []RowIssue{{Message: message}}
	s.ProcessedAt = &at
}
