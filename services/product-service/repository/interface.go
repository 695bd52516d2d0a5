package repository

import (
	"context"
	"errors"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrAlreadyExists = errors.New("product already exists")
)

// ProductRepo is the catalog store used by product-service.
type ProductRepo interface {
	FindByID(ctx context.Context, id string) (*models.ProductRecord, error)
	FindByName(ctx context.Context, name string) (*models.ProductRecord, error)
	FindAll(ctx context.Context) ([]models.ProductRecord, error)
	Create(ctx context.Context, product *models.ProductRecord) error
}

// JobStore keeps async bulk import jobs and their queue.
type JobStore interface {
	Save(ctx context.Context, job *models.ImportJob) error
	Get(ctx context.Context, id string) (*models.ImportJob, error)
	Enqueue(ctx context.Context, id string) error
	// Dequeue blocks until a job id is available or ctx is done.
	Dequeue(ctx context.Context) (string, error)
}
