package tabular

import (
	"strings"

	"github.com/poflow/backend/internal/domain/reconcile"
)

// NormalizeHeader converts a raw spreadsheet header into canonical form:
// lower-case, trimmed, spaces and parentheses collapsed to underscores.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "(", "_")
	h = strings.ReplaceAll(h, ")", "_")
	h = strings.ReplaceAll(h, "__", "_")
	return strings.Trim(h, "_")
}

// poColumnMapping maps normalized PO export headers to staging fields
var poColumnMapping = map[string]string{
	"id":                     "id",
	"change_history":         "change_history",
	"rep_office":             "rep_office",
	"project_name":           "project_name",
	"tax_rate":               "tax_rate",
	"site_name":              "site_name",
	"item_description":       "item_description",
	"note_to_receiver":       "note_to_receiver",
	"unit_price":             "unit_price",
	"due_qty":                "due_qty",
	"po_status":              "po_status",
	"po_no.":                 "po_number",
	"po_line_no.":            "po_line_no",
	"item_code":              "item_code",
	"billed_quantity":        "billed_qty",
	"requested_qty":          "requested_qty",
	"publish_date":           "publish_date",
	"project_code":           "project_code",
	"payment_terms":          "payment_terms",
	"customer":               "customer",
	"site_code":              "site_code",
	"sub_contract_no.":       "subcontract_no",
	"pr_no.":                 "pr_no",
	"sales_contract_no.":     "sales_contract_no",
	"version_no.":            "version_no",
	"shipment_no.":           "shipment_no",
	"item_description_local": "item_description_local",
	"quantity_cancel":        "quantity_cancel",
	"line_amount":            "line_amount",
	"unit":                   "unit",
	"currency":               "currency",
	"payment_method":         "payment_method",
	"bill_to":                "bill_to",
	"ship_to":                "ship_to",
	"engineering_code":       "engineering_code",
	"engineering_name":       "engineering_name",
	"subproject_code":        "subproject_code",
	"category":               "category",
	"center_area":            "center_area",
	"product_category":       "product_category",
	"bidding_area":           "bidding_area",
	"start_date":             "start_date",
	"end_date":               "end_date",
	"expire_date":            "expire_date",
	"acceptance_date":        "acceptance_date",
	"ff_buyer":               "ff_buyer",
	"fob_lookup_code":        "fob_lookup_code",

	"pr/po_automation_solution_only_china": "pr_po_automation",
}

// acceptanceColumnMapping maps normalized acceptance export headers to
// staging fields. The source system exports most headers without spaces.
var acceptanceColumnMapping = map[string]string{
	"id":                     "id",
	"acceptanceno.":          "acceptance_no",
	"status":                 "status",
	"rejected_reason":        "rejected_reason",
	"pono.":                  "po_number",
	"polineno.":              "po_line_no",
	"shipmentno.":            "shipment_no",
	"item_description":       "item_description",
	"item_description_local": "item_description_local",
	"projectcode":            "project_code",
	"projectname":            "project_name",
	"sitecode":               "site_code",
	"sitename":               "site_name",
	"siteid":                 "site_id",
	"engineeringcode":        "engineering_code",
	"businesstype":           "business_type",
	"productcategory":        "product_category",
	"requestedqty":           "requested_qty",
	"acceptanceqty":          "acceptance_qty",
	"unitprice":              "unit_price",
	"milestonetype":          "milestone_type",
	"acceptancemilestone":    "acceptance_milestone",
	"cancelremainingqty":     "cancel_remaining_qty",
	"biddingarea":            "bidding_area",
	"customer":               "customer",
	"repoffice":              "rep_office",
	"unit":                   "unit",
	"subprojectcode":         "subproject_code",
	"engineeringcategory":    "engineering_category",
	"centerarea":             "center_area",
	"plannedcompletiondate":  "planned_completion_date",
	"actualcompletiondate":   "actual_completion_date",
	"approver":               "approver",
	"currenthandler":         "current_handler",
	"approvalprogress":       "approval_progress",
	"isdpproject":            "isdp_project",
	"applicationsubmitted":   "application_submitted",
	"applicationprocessed":   "application_processed",
	"headerremarks":          "header_remarks",
	"remarks":                "remarks",
	"servicecode":            "service_code",
	"payment_percentage":     "payment_percentage",
}

// ColumnMapping returns the static header-to-field table for a document type
func ColumnMapping(doc reconcile.DocumentType) map[string]string {
	switch doc {
	case reconcile.DocPurchaseOrder:
		return poColumnMapping
	case reconcile.DocAcceptance:
		return acceptanceColumnMapping
	}
	return nil
}

// MappedRow gives field-indexed access to one data row. Fields whose source
// column is absent from the file are nil; present fields are never nil,
// even when the cell is blank.
type MappedRow map[string]*string

// Get returns the raw value pointer for a field, nil when the source file
// had no such column.
func (r MappedRow) Get(field string) *string {
	return r[field]
}

// Str returns the raw value for a field, with nil reading as ""
func (r MappedRow) Str(field string) string {
	if v := r[field]; v != nil {
		return *v
	}
	return ""
}

// Fields returns the row as a plain string map for validation
func (r MappedRow) Fields() map[string]string {
	out := make(map[string]string, len(r))
	for field, v := range r {
		if v != nil {
			out[field] = *v
		} else {
			out[field] = ""
		}
	}
	return out
}

// MapColumns applies the document's static column mapping to the table.
// Every canonical field is present in every returned row; unmapped source
// columns are dropped silently.
func MapColumns(doc reconcile.DocumentType, table *Table) []MappedRow {
	mapping := ColumnMapping(doc)

	// canonical field -> source column index, -1 when absent
	fieldIndex := make(map[string]int, len(mapping))
	for field := range mapping {
		fieldIndex[mapping[field]] = -1
	}
	for idx, header := range table.Headers {
		if field, ok := mapping[NormalizeHeader(header)]; ok {
			if fieldIndex[field] == -1 {
				fieldIndex[field] = idx
			}
		}
	}

	rows := make([]MappedRow, 0, len(table.Rows))
	for _, record := range table.Rows {
		row := make(MappedRow, len(fieldIndex))
		for field, idx := range fieldIndex {
			if idx < 0 {
				row[field] = nil
				continue
			}
			var value string
			if idx < len(record) {
				value = record[idx]
			}
			row[field] = &value
		}
		rows = append(rows, row)
	}
	return rows
}
