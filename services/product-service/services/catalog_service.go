package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/repository"
)

const maxNameLength = 200

// CatalogService creates and lists catalog products.
type CatalogService struct {
	repo repository.ProductRepo
	log  *zap.Logger
}

func NewCatalogService(repo repository.ProductRepo, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{repo: repo, log: log}
}

// CreateProduct validates and stores one product. Names are unique.
func (s *CatalogService) CreateProduct(ctx context.Context, rec models.ProductRecord) (models.CreateResult, error) {
	rec.Name = strings.TrimSpace(rec.Name)
	if msg := checkRecord(rec); msg != "" {
		return models.CreateResult{Success: false, Error: msg}, nil
	}

	existing, err := s.repo.FindByName(ctx, rec.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return models.CreateResult{}, fmt.Errorf("check product name: %w", err)
	}
	if existing != nil {
		return models.CreateResult{Success: false, Error: fmt.Sprintf("product %q already exists", rec.Name)}, nil
	}

	now := time.Now().UTC()
	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.DefaultWeight == "" {
		rec.DefaultWeight = DefaultWeight
	}

	if err := s.repo.Create(ctx, &rec); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return models.CreateResult{Success: false, Error: fmt.Sprintf("product %q already exists", rec.Name)}, nil
		}
		return models.CreateResult{}, err
	}

	s.log.Info("Product created", zap.String("product_id", rec.ID), zap.String("name", rec.Name))
	return models.CreateResult{Success: true, Data: &rec}, nil
}

func checkRecord(rec models.ProductRecord) string {
	switch {
	case rec.Name == "":
		return "name is required"
	case len(rec.Name) > maxNameLength:
		return fmt.Sprintf("name must be at most %d characters", maxNameLength)
	case rec.Price <= 0:
		return "price must be greater than 0"
	case rec.Stock < 0:
		return "stock cannot be negative"
	}
	return ""
}

// GetProduct returns one product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.ProductRecord, *ServiceError) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Product not found")
	}
	if err != nil {
		s.log.Error("Failed to fetch product", zap.String("product_id", id), zap.Error(err))
		return nil, internal("Failed to fetch product")
	}
	return p, nil
}

// ListAll returns the whole catalog ordered by name, for listing and export.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.ProductRecord, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}
