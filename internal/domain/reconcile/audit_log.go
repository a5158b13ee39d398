package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by PO reconciliation. Acceptance reconciliation
// writes no audit trail; its uploads are destructive snapshots.
const (
	AuditActionInsert = "INSERT"
	AuditActionUpdate = "UPDATE"
)

// ChangeSourceFileUpload marks audit entries produced by the file pipeline
const ChangeSourceFileUpload = "file_upload"

// POAuditLog is one immutable audit entry for a PO line, keyed by the batch
// that produced it. INSERT entries carry only the new snapshot; UPDATE
// entries carry both snapshots plus the changed field names.
type POAuditLog struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index:idx_audit_tenant_batch"`
	BatchID  uuid.UUID `gorm:"column:batch_id;type:uuid;index:idx_audit_tenant_batch"`

	PONumber string `gorm:"column:po_number;size:100;not null;index:idx_audit_tenant_po"`
	POLineNo string `gorm:"column:po_line_no;size:50;not null;index:idx_audit_tenant_po"`

	Action       string `gorm:"column:action;size:20;not null"`
	ChangeSource string `gorm:"column:change_source;size:50;default:'file_upload'"`

	OldValues     map[string]any `gorm:"column:old_values;serializer:json;type:jsonb"`
	NewValues     map[string]any `gorm:"column:new_values;serializer:json;type:jsonb"`
	ChangedFields []string       `gorm:"column:changed_fields;serializer:json;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
}

// TableName returns the table name for POAuditLog
func (POAuditLog) TableName() string {
	return "po_audit_log"
}

// NewInsertAudit records the creation of a PO line
func NewInsertAudit(tenantID, batchID uuid.UUID, poNumber, poLineNo string, newValues map[string]any) *POAuditLog {
	return &POAuditLog{
		TenantID:     tenantID,
		BatchID:      batchID,
		PONumber:     poNumber,
		POLineNo:     poLineNo,
		Action:       AuditActionInsert,
		ChangeSource: ChangeSourceFileUpload,
		NewValues:    newValues,
	}
}

// NewUpdateAudit records a field-level change to an existing PO line
func NewUpdateAudit(tenantID, batchID uuid.UUID, poNumber, poLineNo string, oldValues, newValues map[string]any, changed []string) *POAuditLog {
	return &POAuditLog{
		TenantID:      tenantID,
		BatchID:       batchID,
		PONumber:      poNumber,
		POLineNo:      poLineNo,
		Action:        AuditActionUpdate,
		ChangeSource:  ChangeSourceFileUpload,
		OldValues:     oldValues,
		NewValues:     newValues,
		ChangedFields: changed,
	}
}
