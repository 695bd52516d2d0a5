package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/services"
)

// BulkImportHandler handles bulk product import operations
type BulkImportHandler struct {
	importer  ImporterAPI
	jobs      JobsAPI
	cache     *CacheManager
	validator *RequestValidator
	timeout   time.Duration
}

func NewBulkImportHandler(importer ImporterAPI, jobs JobsAPI, cache *CacheManager, validator *RequestValidator) *BulkImportHandler {
	return &BulkImportHandler{
		importer:  importer,
		jobs:      jobs,
		cache:     cache,
		validator: validator,
		timeout:   ImportTimeout,
	}
}

// CreateBulkProducts imports a CSV or XLSX feed from the multipart "file"
// field. Files in "images" are matched to rows by exact product name.
func (h *BulkImportHandler) CreateBulkProducts(c *gin.Context) {
	log := logger.FromGin(c)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	format, err := h.validator.FeedFormat(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := readFileHeader(fh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}

	var images []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		images = form.File["images"]
	}
	imageFiles, err := h.validator.ReadImages(images)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.ToLower(strings.TrimSpace(c.Query("async"))) == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
		defer cancel()
		job, err := h.jobs.Submit(ctx, format, data, imageFiles)
		if err != nil {
			log.Error("Failed to enqueue async bulk import", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue import job"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"job_id":  job.ID,
			"message": "Import queued for processing",
		})
		return
	}

	rows, err := services.ParseCatalog(format, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.importer.Import(ctx, rows, services.ImagesByName(imageFiles))
	if result != nil && result.Success > 0 {
		if cerr := h.cache.Invalidate(context.Background()); cerr != nil {
			log.Error("CRITICAL: Failed to invalidate cache after bulk import", zap.Error(cerr))
		}
	}
	if err != nil {
		log.Warn("Bulk import interrupted", zap.Error(err))
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": "Import interrupted before all rows were processed", "result": result})
		return
	}

	log.Info("Bulk import finished",
		zap.String("format", format),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
		zap.Int("warnings", result.Warnings))
	c.JSON(http.StatusOK, result)
}

// GetBulkImportJobStatus returns the job status/result stored in Redis
func (h *BulkImportHandler) GetBulkImportJobStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	job, serr := h.jobs.Status(ctx, id)
	if serr != nil {
		c.JSON(serr.StatusCode, gin.H{"error": serr.Message})
		return
	}
	c.JSON(http.StatusOK, job)
}
