package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/repository"
)

const catalogFileName = "catalog"

// ImportJobs persists uploaded feeds to disk, queues them in redis and runs
// them through the importer in the background.
type ImportJobs struct {
	jobs       repository.JobStore
	importer   *BulkImporter
	storageDir string
	log        *zap.Logger
}

func NewImportJobs(jobs repository.JobStore, importer *BulkImporter, storageDir string, log *zap.Logger) *ImportJobs {
	if storageDir == "" {
		storageDir = "./data/bulk_imports"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportJobs{jobs: jobs, importer: importer, storageDir: storageDir, log: log}
}

// Submit stores the feed and its images under <storageDir>/<job id> and
// queues the job.
func (w *ImportJobs) Submit(ctx context.Context, format string, data []byte, images []models.ImageFile) (*models.ImportJob, error) {
	job := &models.ImportJob{
		ID:        uuid.New().String(),
		Status:    models.JobPending,
		Format:    format,
		CreatedAt: time.Now().UTC(),
	}

	dir := w.jobDir(job.ID)
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create job directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, catalogFileName+"."+format), data, 0o644); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to persist file: %w", err)
	}
	for _, img := range images {
		path := filepath.Join(dir, "images", filepath.Base(img.Filename))
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to persist image %s: %w", img.Filename, err)
		}
	}

	if err := w.jobs.Save(ctx, job); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	if err := w.jobs.Enqueue(ctx, job.ID); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	w.log.Info("Bulk import job queued", zap.String("job_id", job.ID), zap.String("format", format), zap.Int("images", len(images)))
	return job, nil
}

// Status returns the stored job.
func (w *ImportJobs) Status(ctx context.Context, id string) (*models.ImportJob, *ServiceError) {
	job, err := w.jobs.Get(ctx, id)
	if errors.Is(err, repository.ErrJobNotFound) {
		return nil, notFound("Job not found")
	}
	if err != nil {
		w.log.Error("Failed to get job status", zap.String("job_id", id), zap.Error(err))
		return nil, internal("Failed to retrieve job status")
	}
	return job, nil
}

// Run consumes queued jobs until ctx is cancelled.
func (w *ImportJobs) Run(ctx context.Context) {
	w.log.Info("bulk import worker started", zap.String("queue", repository.JobQueueKey), zap.String("dir", w.storageDir))
	for {
		id, err := w.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.log.Info("bulk import worker stopping")
				return
			}
			w.log.Error("dequeue failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}
		w.Process(ctx, id)
	}
}

// Process runs one job and records its final status. The job directory is
// removed afterwards.
func (w *ImportJobs) Process(ctx context.Context, id string) {
	log := w.log.With(zap.String("job_id", id))
	job, err := w.jobs.Get(ctx, id)
	if err != nil {
		log.Error("failed to read job metadata", zap.Error(err))
		return
	}
	dir := w.jobDir(id)
	defer os.RemoveAll(dir)

	job.Status = models.JobProcessing
	if err := w.jobs.Save(ctx, job); err != nil {
		log.Warn("failed to mark job processing", zap.Error(err))
	}

	result, err := w.run(ctx, dir, job.Format)
	job.Result = result
	if err != nil {
		log.Error("bulk import processing failed", zap.Error(err))
		job.Status = models.JobFailed
		job.Error = err.Error()
	} else {
		job.Status = models.JobDone
		log.Info("bulk import finished", zap.Int("success", result.Success), zap.Int("failed", result.Failed))
	}
	importJobsTotal.WithLabelValues(string(job.Status)).Inc()

	// Cancelled runs still record their partial result.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.jobs.Save(saveCtx, job); err != nil {
		log.Error("failed to store job result", zap.Error(err))
	}
}

func (w *ImportJobs) run(ctx context.Context, dir, format string) (*models.ImportResult, error) {
	data, err := os.ReadFile(filepath.Join(dir, catalogFileName+"."+format))
	if err != nil {
		return nil, fmt.Errorf("open job file: %w", err)
	}
	rows, err := ParseCatalog(format, data)
	if err != nil {
		return nil, err
	}
	images, err := loadImages(filepath.Join(dir, "images"))
	if err != nil {
		return nil, err
	}
	return w.importer.Import(ctx, rows, ImagesByName(images))
}

func (w *ImportJobs) jobDir(id string) string {
	return filepath.Join(w.storageDir, filepath.Base(id))
}

func loadImages(dir string) ([]models.ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read job images: %w", err)
	}
	var images []models.ImageFile
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read job image %s: %w", e.Name(), err)
		}
		images = append(images, models.ImageFile{
			Filename:    e.Name(),
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}
	return images, nil
}
