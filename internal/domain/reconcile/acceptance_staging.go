package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// AcceptanceStaging is the untyped landing record for one acceptance file
// row. Reconciliation reads valid unprocessed rows but, unlike the PO path,
// leaves the flags alone on row-level failure.
type AcceptanceStaging struct {
	StagingID int64     `gorm:"column:staging_id;primaryKey;autoIncrement"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index:idx_acc_staging_tenant_batch"`
	BatchID   uuid.UUID `gorm:"column:batch_id;type:uuid;not null;index:idx_acc_staging_tenant_batch"`

	RowNumber        int        `gorm:"column:row_number"`
	IsProcessed      bool       `gorm:"column:is_processed;default:false"`
	IsValid          bool       `gorm:"column:is_valid"`
	ValidationErrors []RowIssue `gorm:"column:validation_errors;serializer:json;type:jsonb"`
	ProcessedAt      *time.Time `gorm:"column:processed_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null"`

	SourceRecordID        *string `gorm:"column:id;size:100"`
	AcceptanceNo          *string `gorm:"column:acceptance_no;size:100"`
	Status                *string `gorm:"column:status;size:50"`
	RejectedReason        *string `gorm:"column:rejected_reason;type:text"`
	PONumber              *string `gorm:"column:po_number;size:100"`
	POLineNo              *string `gorm:"column:po_line_no;size:50"`
	ShipmentNo            *string `gorm:"column:shipment_no;size:50"`
	ItemDescription       *string `gorm:"column:item_description;type:text"`
	ItemDescriptionLocal  *string `gorm:"column:item_description_local;type:text"`
	ProjectCode           *string `gorm:"column:project_code;size:100"`
	ProjectName           *string `gorm:"column:project_name;size:255"`
	SiteCode              *string `gorm:"column:site_code;size:100"`
	SiteName              *string `gorm:"column:site_name;size:255"`
	SiteID                *string `gorm:"column:site_id;size:50"`
	EngineeringCode       *string `gorm:"column:engineering_code;size:100"`
	BusinessType          *string `gorm:"column:business_type;type:text"`
	ProductCategory       *string `gorm:"column:product_category;type:text"`
	RequestedQty          *string `gorm:"column:requested_qty;size:50"`
	AcceptanceQty         *string `gorm:"column:acceptance_qty;size:50"`
	UnitPrice             *string `gorm:"column:unit_price;size:50"`
	MilestoneType         *string `gorm:"column:milestone_type;size:100"`
	AcceptanceMilestone   *string `gorm:"column:acceptance_milestone;size:100"`
	CancelRemainingQty    *string `gorm:"column:cancel_remaining_qty;type:text"`
	BiddingArea           *string `gorm:"column:bidding_area;size:255"`
	Customer              *string `gorm:"column:customer;size:50"`
	RepOffice             *string `gorm:"column:rep_office;size:255"`
	Unit                  *string `gorm:"column:unit;size:50"`
	SubprojectCode        *string `gorm:"column:subproject_code;size:100"`
	EngineeringCategory   *string `gorm:"column:engineering_category;size:255"`
	CenterArea            *string `gorm:"column:center_area;size:255"`
	PlannedCompletionDate *string `gorm:"column:planned_completion_date;size:50"`
	ActualCompletionDate  *string `gorm:"column:actual_completion_date;size:50"`
	Approver              *string `gorm:"column:approver;size:255"`
	CurrentHandler        *string `gorm:"column:current_handler;type:text"`
	ApprovalProgress      *string `gorm:"column:approval_progress;size:100"`
	ISDPProject           *string `gorm:"column:isdp_project;size:100"`
	ApplicationSubmitted  *string `gorm:"column:application_submitted;size:50"`
	ApplicationProcessed  *string `gorm:"column:application_processed;size:50"`
	HeaderRemarks         *string `gorm:"column:header_remarks;type:text"`
	Remarks               *string `gorm:"column:remarks;type:text"`
	ServiceCode           *string `gorm:"column:service_code;size:50"`
	PaymentPercentage     *string `gorm:"column:payment_percentage;size:50"`
}

// TableName returns the table name for AcceptanceStaging
func (AcceptanceStaging) TableName() string {
	return "acceptance_staging"
}
