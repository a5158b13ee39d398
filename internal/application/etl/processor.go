package etl

import (
	"context"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/poflow/backend/internal/domain/reconcile"
)

// Result is the outcome of processing one uploaded file
type Result struct {
	Success  bool
	Stats    Stats
	BatchID  uuid.UUID
	UploadID uuid.UUID
}

// Processor orchestrates the two-phase pipeline for one uploaded file:
// stage the raw rows, reconcile them into the authoritative tables, then
// record the attempt. Exactly one upload_history row is written per call,
// also when the pipeline panics.
type Processor struct {
	db            *gorm.DB
	logger        *zap.Logger
	uploadHistory reconcile.UploadHistoryRepository
}

// NewProcessor creates a file processor
func NewProcessor(db *gorm.DB, logger *zap.Logger, uploadHistory reconcile.UploadHistoryRepository) *Processor {
	return &Processor{
		db:            db,
		logger:        logger.Named("etl"),
		uploadHistory: uploadHistory,
	}
}

// ProcessFile runs the full pipeline on the file at path. The temp file is
// removed when processing ends, whatever the outcome.
func (p *Processor) ProcessFile(ctx context.Context, path string, tenantID uuid.UUID, doc reconcile.DocumentType, fileName string) (result Result) {
	logger := p.logger.With(
		zap.String("tenant_id", tenantID.String()),
		zap.String("doc_type", string(doc)),
		zap.String("file_name", fileName),
	)

	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panic", zap.Any("error", r), zap.Stack("stacktrace"))
			result = Result{Success: false}
			result.UploadID = p.recordAttempt(ctx, tenantID, fileName, doc, 0, reconcile.UploadStatusFailed)
		}
	}()

	stats := Stats{}
	loader := NewLoader(p.db, logger, doc, tenantID, &stats)
	loadOK := loader.Load(ctx, path)

	reconcileOK := false
	if loadOK {
		switch doc {
		case reconcile.DocPurchaseOrder:
			reconcileOK = NewPOReconciler(p.db, logger, tenantID, loader.BatchID(), &stats).TransformAndLoad(ctx)
		case reconcile.DocAcceptance:
			reconcileOK = NewAcceptanceReconciler(p.db, logger, tenantID, loader.BatchID(), &stats).TransformAndLoad(ctx)
		}
	}

	status := reconcile.DeriveUploadStatus(loadOK, reconcileOK, stats.ProcessedRows)
	uploadID := p.recordAttempt(ctx, tenantID, fileName, doc, stats.TotalRows, status)

	logger.Info("processed upload",
		zap.String("status", string(status)),
		zap.Int("total_rows", stats.TotalRows),
		zap.Int("processed_rows", stats.ProcessedRows),
		zap.Int("failed_rows", stats.FailedRows),
	)

	return Result{
		Success:  status == reconcile.UploadStatusSuccess,
		Stats:    stats,
		BatchID:  loader.BatchID(),
		UploadID: uploadID,
	}
}

// recordAttempt writes the upload_history row. A write failure is logged
// but never surfaced; the pipeline outcome stands on its own.
func (p *Processor) recordAttempt(ctx context.Context, tenantID uuid.UUID, fileName string, doc reconcile.DocumentType, totalRows int, status reconcile.UploadStatus) uuid.UUID {
	history := reconcile.NewUploadHistory(tenantID, fileName, doc, totalRows, status)
	if err := p.uploadHistory.Create(ctx, history); err != nil {
		p.logger.Error("failed to record upload history",
			zap.String("file_name", fileName),
			zap.Error(err),
		)
	}
	return history.ID
}
