package etl

import "github.com/poflow/backend/internal/domain/reconcile"

// Stats accumulates counters across the staging and reconciliation phases
// of one upload. ProcessedRows counts rows that landed in staging;
// NewRecords and UpdatedRecords count reconciliation outcomes. Validation
// issues are collected verbatim so the upload summary can expose them
// without re-reading staging rows.
type Stats struct {
	TotalRows        int                  `json:"total_rows"`
	ProcessedRows    int                  `json:"processed_rows"`
	FailedRows       int                  `json:"failed_rows"`
	NewRecords       int                  `json:"new_records"`
	UpdatedRecords   int                  `json:"updated_records"`
	ValidationErrors []reconcile.RowIssue `json:"validation_errors,omitempty"`
}
