package handler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/poflow/backend/internal/domain/reconcile"
	"github.com/poflow/backend/internal/infrastructure/config"
	"github.com/poflow/backend/internal/infrastructure/pipeline"
	"github.com/poflow/backend/internal/infrastructure/tabular"
	"github.com/poflow/backend/internal/interfaces/http/dto"
	"github.com/poflow/backend/internal/interfaces/http/middleware"
)

// TaskEnqueuer submits a file processing task to the background pipeline
type TaskEnqueuer interface {
	Enqueue(task pipeline.Task) error
}

// UploadHandler accepts tabular file uploads and queues them for processing
type UploadHandler struct {
	BaseHandler
	scheduler TaskEnqueuer
	cfg       config.UploadConfig
	logger    *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(scheduler TaskEnqueuer, cfg config.UploadConfig, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger.Named("upload"),
	}
}

// RegisterRoutes registers upload routes on the API group
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	uploads.POST("/purchase-orders", h.UploadPurchaseOrders)
	uploads.POST("/acceptances", h.UploadAcceptances)
}

// UploadPurchaseOrders accepts a purchase order export file
func (h *UploadHandler) UploadPurchaseOrders(c *gin.Context) {
	h.upload(c, reconcile.DocPurchaseOrder)
}

// UploadAcceptances accepts an acceptance export file
func (h *UploadHandler) UploadAcceptances(c *gin.Context) {
	h.upload(c, reconcile.DocAcceptance)
}

func (h *UploadHandler) upload(c *gin.Context, doc reconcile.DocumentType) {
	tenantID := middleware.MustGetTenantID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if !tabular.SupportedExtension(header.Filename) {
		h.ErrorWithCode(c, dto.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported file format %q, expected .csv, .xlsx or .xls", filepath.Ext(header.Filename)))
		return
	}

	if header.Size > h.cfg.MaxFileSize {
		h.ErrorWithCode(c, dto.ErrCodeFileTooLarge,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.cfg.MaxFileSize))
		return
	}

	tempPath, err := h.spoolFile(file, header.Filename)
	if err != nil {
		h.logger.Error("Failed to spool uploaded file",
			zap.String("file_name", header.Filename),
			zap.Error(err),
		)
		h.InternalError(c, "failed to store uploaded file")
		return
	}

	task := pipeline.Task{
		Doc:      doc,
		FilePath: tempPath,
		TenantID: tenantID,
		FileName: header.Filename,
	}
	if err := h.scheduler.Enqueue(task); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			h.logger.Warn("Failed to remove spooled file", zap.String("path", tempPath), zap.Error(removeErr))
		}
		if errors.Is(err, pipeline.ErrQueueFull) {
			h.ErrorWithCode(c, dto.ErrCodeQueueFull, "processing queue is full, retry later")
			return
		}
		h.InternalError(c, "failed to queue file for processing")
		return
	}

	h.logger.Info("Upload accepted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("doc_type", string(doc)),
		zap.String("file_name", header.Filename),
		zap.Int64("file_size", header.Size),
	)

	h.Accepted(c, dto.UploadAcceptedResponse{
		FileName: header.Filename,
		FileType: string(doc),
		FileSize: header.Size,
		TenantID: tenantID.String(),
		Message:  "file accepted for processing",
	})
}

// spoolFile copies the uploaded file into the temp dir under a unique name.
// The pipeline removes the file once processing finishes.
func (h *UploadHandler) spoolFile(file io.Reader, fileName string) (string, error) {
	if err := os.MkdirAll(h.cfg.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	ext := filepath.Ext(fileName)
	tempPath := filepath.Join(h.cfg.TempDir, uuid.New().String()+ext)

	dst, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return tempPath, nil
}
