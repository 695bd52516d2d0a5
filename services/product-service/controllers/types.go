package controllers

import (
	"context"
	"time"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/catalogcsv"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/services"
)

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
	ImportTimeout         = 5 * time.Minute
)

// CatalogAPI is the product service surface used by the controllers.
type CatalogAPI interface {
	CreateProduct(ctx context.Context, rec models.ProductRecord) (models.CreateResult, error)
	GetProduct(ctx context.Context, id string) (*models.ProductRecord, *services.ServiceError)
	ListAll(ctx context.Context) ([]models.ProductRecord, error)
}

// ImporterAPI runs a parsed feed.
type ImporterAPI interface {
	Import(ctx context.Context, rows []catalogcsv.Row, images map[string]models.ImageFile) (*models.ImportResult, error)
}

// JobsAPI queues feeds for background import.
type JobsAPI interface {
	Submit(ctx context.Context, format string, data []byte, images []models.ImageFile) (*models.ImportJob, error)
	Status(ctx context.Context, id string) (*models.ImportJob, *services.ServiceError)
}
