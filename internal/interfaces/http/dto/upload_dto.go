package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/poflow/backend/internal/domain/reconcile"
)

// UploadAcceptedResponse is returned when a file has been queued for processing
type UploadAcceptedResponse struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	TenantID string `json:"tenant_id"`
	Message  string `json:"message"`
}

// UploadHistoryResponse represents one upload attempt in list responses
type UploadHistoryResponse struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	TotalRows  int       `json:"total_rows"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ToUploadHistoryResponse converts an upload history entity to its response form
func ToUploadHistoryResponse(h *reconcile.UploadHistory) UploadHistoryResponse {
	return UploadHistoryResponse{
		ID:         h.ID,
		FileName:   h.FileName,
		FileType:   string(h.FileType),
		TotalRows:  h.TotalRows,
		Status:     string(h.Status),
		UploadedAt: h.UploadedAt,
	}
}

// ToUploadHistoryResponses converts a slice of upload history entities
func ToUploadHistoryResponses(items []reconcile.UploadHistory) []UploadHistoryResponse {
	responses := make([]UploadHistoryResponse, len(items))
	for i := range items {
		responses[i] = ToUploadHistoryResponse(&items[i])
	}
	return responses
}

// AccountResponse represents a derived billing account
type AccountResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectName string    `json:"project_name"`
	AccountName string    `json:"account_name"`
	NeedsReview bool      `json:"needs_review"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToAccountResponse converts an account entity to its response form
func ToAccountResponse(a *reconcile.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		ProjectName: a.ProjectName,
		AccountName: a.AccountName,
		NeedsReview: a.NeedsReview,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToAccountResponses converts a slice of account entities
func ToAccountResponses(items []reconcile.Account) []AccountResponse {
	responses := make([]AccountResponse, len(items))
	for i := range items {
		responses[i] = ToAccountResponse(&items[i])
	}
	return responses
}

// ReviewAccountRequest is the payload for confirming a derived account mapping
type ReviewAccountRequest struct {
	AccountName string `json:"account_name" binding:"required,max=255"`
}

// UploadHistoryListRequest represents upload history list query parameters
type UploadHistoryListRequest struct {
	ListRequest
}

// AccountListRequest represents account list query parameters
type AccountListRequest struct {
	NeedsReview bool `form:"needs_review"`
}
