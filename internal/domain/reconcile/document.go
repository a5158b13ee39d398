package reconcile

// DocumentType identifies which ingest pipeline a file goes through
type DocumentType string

const (
	DocPurchaseOrder DocumentType = "PO"
	DocAcceptance    DocumentType = "Acceptance"
)

// IsValid checks if the document type is valid
func (d DocumentType) IsValid() bool {
	switch d {
	case DocPurchaseOrder, DocAcceptance:
		return true
	}
	return false
}

// RowIssue represents one validation problem on a staged row. Issues are
// stored verbatim on the staging record, never propagated as errors.
type RowIssue struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"error"`
}

type requiredField struct {
	name    string
	message string
}

var poRequiredFields = []requiredField{
	{"po_number", "PO Number is required"},
	{"po_line_no", "PO Line Number is required"},
}

var acceptanceRequiredFields = []requiredField{
	{"acceptance_no", "Acceptance Number is required"},
	{"po_number", "PO Number is required"},
	{"po_line_no", "PO Line Number is required"},
	{"shipment_no", "Shipment Number is required"},
}

// Validate runs the per-document required-field rules over one mapped row.
// Missing fields read as empty strings. A row with zero issues is valid;
// invalid rows are still staged and only skipped by reconciliation.
func (d DocumentType) Validate(row int, fields map[string]string) []RowIssue {
	var rules []requiredField
	switch d {
	case DocPurchaseOrder:
		rules = poRequiredFields
	case DocAcceptance:
		rules = acceptanceRequiredFields
	}

	var issues []RowIssue
	for _, r := range rules {
		if fields[r.name] == "" {
			issues = append(issues, RowIssue{
				Row:     row,
				Field:   r.name,
				Value:   fields[r.name],
				Message: r.message,
			})
		}
	}
	return issues
}
