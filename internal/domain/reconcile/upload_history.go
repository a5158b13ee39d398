package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/poflow/backend/internal/domain/shared"
)

// UploadStatus is the outcome of one upload attempt
type UploadStatus string

const (
	UploadStatusSuccess UploadStatus = "success"
	UploadStatusPartial UploadStatus = "partial"
	UploadStatusFailed  UploadStatus = "failed"
)

// UploadHistory is the write-once summary of one upload attempt. Exactly one
// row is persisted per attempt, even when the pipeline fails hard.
type UploadHistory struct {
	shared.TenantEntity
	FileName   string       `gorm:"column:file_name;size:255;not null"`
	FileType   DocumentType `gorm:"column:file_type;size:50;not null;index"`
	UploadedAt time.Time    `gorm:"column:uploaded_at;not null;index"`
	TotalRows  int          `gorm:"column:total_rows;default:0"`
	Status     UploadStatus `gorm:"column:status;size:50;not null"`
}

// TableName returns the table name for UploadHistory
func (UploadHistory) TableName() string {
	return "upload_history"
}

// NewUploadHistory creates the summary record for one upload attempt
func NewUploadHistory(tenantID uuid.UUID, fileName string, fileType DocumentType, totalRows int, status UploadStatus) *UploadHistory {
	return &UploadHistory{
		TenantEntity: shared.NewTenantEntity(tenantID),
		FileName:     fileName,
		FileType:     fileType,
		UploadedAt:   time.Now(),
		TotalRows:    totalRows,
		Status:       status,
	}
}

// DeriveUploadStatus computes the outcome of one upload attempt: success
// when both load and reconcile succeeded, partial when the attempt failed
// overall but some rows made it through staging, failed otherwise.
func DeriveUploadStatus(loadOK, reconcileOK bool, processedRows int) UploadStatus {
	switch {
	case loadOK && reconcileOK:
		return UploadStatusSuccess
	case processedRows > 0:
		return UploadStatusPartial
	default:
		return UploadStatusFailed
	}
}
