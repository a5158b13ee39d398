package reconcile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poflow/backend/internal/domain/shared"
)

// Acceptance is the authoritative record for one delivery acceptance line.
// Unlike purchase orders, acceptances are a point-in-time snapshot: every
// upload fully replaces the tenant's row set.
type Acceptance struct {
	shared.BaseEntity
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index:idx_acceptance_tenant_lookup"`

	AcceptanceNo string `gorm:"column:acceptance_no;size:100;not null;index:idx_acceptance_tenant_lookup"`
	PONumber     string `gorm:"column:po_number;size:100;not null;index:idx_acceptance_tenant_lookup"`
	POLineNo     string `gorm:"column:po_line_no;size:50;not null;index:idx_acceptance_tenant_lookup"`
	ShipmentNo   int    `gorm:"column:shipment_no;not null"`

	Status                *string          `gorm:"column:status;size:50"`
	RejectedReason        *string          `gorm:"column:rejected_reason;type:text"`
	ItemDescription       *string          `gorm:"column:item_description;type:text"`
	ItemDescriptionLocal  *string          `gorm:"column:item_description_local;type:text"`
	ProjectCode           *string          `gorm:"column:project_code;size:100"`
	ProjectName           *string          `gorm:"column:project_name;size:255"`
	SiteCode              *string          `gorm:"column:site_code;size:100"`
	SiteName              *string          `gorm:"column:site_name;size:255"`
	SiteID                *string          `gorm:"column:site_id;size:255"`
	EngineeringCode       *string          `gorm:"column:engineering_code;size:100"`
	BusinessType          *string          `gorm:"column:business_type;type:text"`
	ProductCategory       *string          `gorm:"column:product_category;type:text"`
	RequestedQty          *int             `gorm:"column:requested_qty"`
	AcceptanceQty         *int             `gorm:"column:acceptance_qty"`
	UnitPrice             *decimal.Decimal `gorm:"column:unit_price;type:numeric(15,4)"`
	MilestoneType         *string          `gorm:"column:milestone_type;size:100"`
	AcceptanceMilestone   *string          `gorm:"column:acceptance_milestone;size:100"`
	CancelRemainingQty    *string          `gorm:"column:cancel_remaining_qty;type:text"`
	BiddingArea           *string          `gorm:"column:bidding_area;size:255"`
	Customer              *string          `gorm:"column:customer;type:text"`
	RepOffice             *string          `gorm:"column:rep_office;size:255"`
	Unit                  *string          `gorm:"column:unit;size:50"`
	SubprojectCode        *string          `gorm:"column:subproject_code;size:100"`
	EngineeringCategory   *string          `gorm:"column:engineering_category;size:255"`
	CenterArea            *string          `gorm:"column:center_area;size:255"`
	PlannedCompletionDate *time.Time       `gorm:"column:planned_completion_date;type:date"`
	ActualCompletionDate  *time.Time       `gorm:"column:actual_completion_date;type:date"`
	Approver              *string          `gorm:"column:approver;size:255"`
	CurrentHandler        *string          `gorm:"column:current_handler;type:text"`
	ApprovalProgress      *string          `gorm:"column:approval_progress;size:100"`
	ISDPProject           *string          `gorm:"column:isdp_project;size:100"`
	ApplicationSubmitted  *time.Time       `gorm:"column:application_submitted;type:date"`
	ApplicationProcessed  *time.Time       `gorm:"column:application_processed;type:date"`
	HeaderRemarks         *string          `gorm:"column:header_remarks;type:text"`
	Remarks               *string          `gorm:"column:remarks;type:text"`
	ServiceCode           *decimal.Decimal `gorm:"column:service_code;type:numeric(15,4)"`
	PaymentPercentage     *string          `gorm:"column:payment_percentage;size:50"`

	RecordStatus string `gorm:"column:record_status;size:50;default:'active'"`
}

// TableName returns the table name for Acceptance
func (Acceptance) TableName() string {
	return "acceptances"
}

// NewAcceptance creates a new acceptance line for a tenant
func NewAcceptance(tenantID uuid.UUID, acceptanceNo, poNumber, poLineNo string, shipmentNo int) *Acceptance {
	return &Acceptance{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		AcceptanceNo: acceptanceNo,
		PONumber:     poNumber,
		POLineNo:     poLineNo,
		ShipmentNo:   shipmentNo,
		RecordStatus: "active",
	}
}
