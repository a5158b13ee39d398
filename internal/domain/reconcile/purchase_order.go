package reconcile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poflow/backend/internal/domain/shared"
)

// PurchaseOrder is the authoritative record for one PO line. Rows are
// created and corrected by reconciliation, never deleted; the
// (tenant, po_number, po_line_no) triple is unique.
type PurchaseOrder struct {
	shared.BaseEntity
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:uq_tenant_po_line"`

	PONumber string `gorm:"column:po_number;size:100;not null;uniqueIndex:uq_tenant_po_line"`
	POLineNo string `gorm:"column:po_line_no;size:50;not null;uniqueIndex:uq_tenant_po_line"`

	ProjectName          *string          `gorm:"column:project_name;size:255"`
	ProjectCode          *string          `gorm:"column:project_code;size:100;index"`
	SiteName             *string          `gorm:"column:site_name;size:255"`
	SiteCode             *string          `gorm:"column:site_code;size:100"`
	ItemCode             *string          `gorm:"column:item_code;size:100"`
	ItemDescription      *string          `gorm:"column:item_description;type:text"`
	ItemDescriptionLocal *string          `gorm:"column:item_description_local;type:text"`
	UnitPrice            *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4)"`
	RequestedQty         *int             `gorm:"column:requested_qty"`
	DueQty               *int             `gorm:"column:due_qty"`
	BilledQty            *int             `gorm:"column:billed_qty"`
	QuantityCancel       *int             `gorm:"column:quantity_cancel"`
	LineAmount           *decimal.Decimal `gorm:"column:line_amount;type:numeric(15,2)"`
	Unit                 *string          `gorm:"column:unit;size:50"`
	Currency             *string          `gorm:"column:currency;size:10"`
	TaxRate              *decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,2)"`
	POStatus             *string          `gorm:"column:po_status;size:50"`
	PaymentTerms         *string          `gorm:"column:payment_terms;size:255"`
	PaymentMethod        *string          `gorm:"column:payment_method;size:100"`
	Customer             *string          `gorm:"column:customer;size:255"`
	RepOffice            *string          `gorm:"column:rep_office;size:255"`
	SubcontractNo        *string          `gorm:"column:subcontract_no;size:100"`
	PRNo                 *string          `gorm:"column:pr_no;size:100"`
	SalesContractNo      *string          `gorm:"column:sales_contract_no;size:100"`
	VersionNo            *string          `gorm:"column:version_no;size:50"`
	ShipmentNo           *string          `gorm:"column:shipment_no;size:100"`
	EngineeringCode      *string          `gorm:"column:engineering_code;size:100"`
	EngineeringName      *string          `gorm:"column:engineering_name;size:255"`
	SubprojectCode       *string          `gorm:"column:subproject_code;size:100"`
	Category             *string          `gorm:"column:category;size:255"`
	CenterArea           *string          `gorm:"column:center_area;size:255"`
	ProductCategory      *string          `gorm:"column:product_category;size:255"`
	BiddingArea          *string          `gorm:"column:bidding_area;size:255"`
	BillTo               *string          `gorm:"column:bill_to;type:text"`
	ShipTo               *string          `gorm:"column:ship_to;type:text"`
	NoteToReceiver       *string          `gorm:"column:note_to_receiver;type:text"`
	FFBuyer              *string          `gorm:"column:ff_buyer;size:255"`
	FOBLookupCode        *string          `gorm:"column:fob_lookup_code;size:100"`
	PublishDate          *time.Time       `gorm:"column:publish_date;type:date"`
	StartDate            *time.Time       `gorm:"column:start_date;type:date"`
	EndDate              *time.Time       `gorm:"column:end_date;type:date"`
	ExpireDate           *time.Time       `gorm:"column:expire_date;type:date"`
	AcceptanceDate       *time.Time       `gorm:"column:acceptance_date;type:date"`
	AcceptanceDate1      *time.Time       `gorm:"column:acceptance_date_1;type:date"`
	ChangeHistory        *string          `gorm:"column:change_history;type:text"`
	PRPOAutomation       *string          `gorm:"column:pr_po_automation;type:text"`

	Status string `gorm:"column:status;size:50;default:'active'"`
}

// TableName returns the table name for PurchaseOrder
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new authoritative PO line for a tenant
func NewPurchaseOrder(tenantID uuid.UUID, poNumber, poLineNo string) *PurchaseOrder {
	return &PurchaseOrder{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		PONumber:   poNumber,
		POLineNo:   poLineNo,
		Status:     "active",
	}
}

// Snapshot returns the business fields as a JSON-serializable map, used for
// audit snapshots and field-level change detection. Identity and timestamp
// columns are excluded so a re-upload of unchanged data diffs as empty.
func (p *PurchaseOrder) Snapshot() map[string]any {
	m := map[string]any{
		"po_number":  p.PONumber,
		"po_line_no": p.POLineNo,
		"status":     p.Status,
	}
	putStr(m, "project_name", p.ProjectName)
	putStr(m, "project_code", p.ProjectCode)
	putStr(m, "site_name", p.SiteName)
	putStr(m, "site_code", p.SiteCode)
	putStr(m, "item_code", p.ItemCode)
	putStr(m, "item_description", p.ItemDescription)
	putStr(m, "item_description_local", p.ItemDescriptionLocal)
	putDec(m, "unit_price", p.UnitPrice)
	putInt(m, "requested_qty", p.RequestedQty)
	putInt(m, "due_qty", p.DueQty)
	putInt(m, "billed_qty", p.BilledQty)
	putInt(m, "quantity_cancel", p.QuantityCancel)
	putDec(m, "line_amount", p.LineAmount)
	putStr(m, "unit", p.Unit)
	putStr(m, "currency", p.Currency)
	putDec(m, "tax_rate", p.TaxRate)
	putStr(m, "po_status", p.POStatus)
	putStr(m, "payment_terms", p.PaymentTerms)
	putStr(m, "payment_method", p.PaymentMethod)
	putStr(m, "customer", p.Customer)
	putStr(m, "rep_office", p.RepOffice)
	putStr(m, "subcontract_no", p.SubcontractNo)
	putStr(m, "pr_no", p.PRNo)
	putStr(m, "sales_contract_no", p.SalesContractNo)
	putStr(m, "version_no", p.VersionNo)
	putStr(m, "shipment_no", p.ShipmentNo)
	putStr(m, "engineering_code", p.EngineeringCode)
	putStr(m, "engineering_name", p.EngineeringName)
	putStr(m, "subproject_code", p.SubprojectCode)
	putStr(m, "category", p.Category)
	putStr(m, "center_area", p.CenterArea)
	putStr(m, "product_category", p.ProductCategory)
	putStr(m, "bidding_area", p.BiddingArea)
	putStr(m, "bill_to", p.BillTo)
	putStr(m, "ship_to", p.ShipTo)
	putStr(m, "note_to_receiver", p.NoteToReceiver)
	putStr(m, "ff_buyer", p.FFBuyer)
	putStr(m, "fob_lookup_code", p.FOBLookupCode)
	putDate(m, "publish_date", p.PublishDate)
	putDate(m, "start_date", p.StartDate)
	putDate(m, "end_date", p.EndDate)
	putDate(m, "expire_date", p.ExpireDate)
	putDate(m, "acceptance_date", p.AcceptanceDate)
	putDate(m, "acceptance_date_1", p.AcceptanceDate1)
	putStr(m, "change_history", p.ChangeHistory)
	putStr(m, "pr_po_automation", p.PRPOAutomation)
	return m
}

// ChangedFields compares two snapshots and returns the names of fields whose
// value differs, in no particular order. An empty result means a no-op
// update which must not be audit-logged.
func ChangedFields(before, after map[string]any) []string {
	var changed []string
	for k, ov := range before {
		if nv, ok := after[k]; !ok || nv != ov {
			changed = append(changed, k)
		}
	}
	for k := range after {
		if _, ok := before[k]; !ok {
			changed = append(changed, k)
		}
	}
	return changed
}

func putStr(m map[string]any, key string, v *string) {
	if v == nil {
		m[key] = nil
		return
	}
	m[key] = *v
}

func putInt(m map[string]any, key string, v *int) {
	if v == nil {
		m[key] = nil
		return
	}
	m[key] = *v
}

func putDec(m map[string]any, key string, v *decimal.Decimal) {
	if v == nil {
		m[key] = nil
		return
	}
	m[key] = v.String()
}

func putDate(m map[string]any, key string, v *time.Time) {
	if v == nil {
		m[key] = nil
		return
	}
	m[key] = v.Format("2006-01-02")
}
