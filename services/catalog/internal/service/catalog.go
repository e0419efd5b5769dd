package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lovely/pkg/events"
	"github.com/Skotchmaster/little_lovely/pkg/logging"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/models"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/search"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/transport"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrSearchUnavailable = errors.New("search is not configured")
)

type Repository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error)
	GetActiveProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
	UpdateProduct(ctx context.Context, prod *models.Product) error
	SetProductActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	GetBrands(ctx context.Context) ([]models.Brand, error)
	CreateBrand(ctx context.Context, brand *models.Brand) error
	GetCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f search.Filter, from, size int) (int64, []search.Document, error)
}

type CatalogService struct {
	Repo      Repository
	Publisher events.Publisher
	// Index is optional; without it search returns ErrSearchUnavailable.
	Index Indexer
}

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return prod, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) GetActiveProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetActiveProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	prod := models.Product{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		ListedPrice:  req.ListedPrice,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
		Active:       req.Active,
		BrandID:      req.BrandID,
		ImagePaths:   models.ImagePaths(req.ImagePaths),
	}
	if err := validateProduct(&prod); err != nil {
		return nil, err
	}
	if err := s.resolveRelations(ctx, &prod, req.CategoryIDs); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.afterWrite(ctx, "product_created", prod)
	return &prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Name != nil {
		prod.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.ListedPrice != nil {
		prod.ListedPrice = *req.ListedPrice
	}
	if req.SellingPrice != nil {
		prod.SellingPrice = *req.SellingPrice
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}
	if req.Active != nil {
		prod.Active = *req.Active
	}
	if req.ImagePaths != nil {
		prod.ImagePaths = models.ImagePaths(*req.ImagePaths)
	}
	if req.BrandID != nil {
		prod.BrandID = *req.BrandID
	}
	if err := validateProduct(prod); err != nil {
		return nil, err
	}

	categoryIDs := make([]uuid.UUID, len(prod.Categories))
	for i, c := range prod.Categories {
		categoryIDs[i] = c.ID
	}
	if req.CategoryIDs != nil {
		categoryIDs = *req.CategoryIDs
	}
	if err := s.resolveRelations(ctx, prod, categoryIDs); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.afterWrite(ctx, "product_updated", *prod)
	return prod, nil
}

// SetProductActive shows or hides a product without deleting it.
func (s *CatalogService) SetProductActive(ctx context.Context, id uuid.UUID, active bool) (*models.Product, error) {
	if err := s.Repo.SetProductActive(ctx, id, active); err != nil {
		return nil, notFound(err)
	}
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	s.afterWrite(ctx, "product_updated", *prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err)
	}

	l := logging.FromContext(ctx)
	s.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Error("search_index_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

// Search runs an optional keyword query narrowed by brand and categories.
func (s *CatalogService) Search(ctx context.Context, f search.Filter, offset, limit int) (int64, []search.Document, error) {
	if s.Index == nil {
		return 0, nil, ErrSearchUnavailable
	}
	f.Query = strings.TrimSpace(f.Query)
	f.CategoryIDs = uniqueIDs(f.CategoryIDs)
	return s.Index.Search(ctx, f, offset, limit)
}

func (s *CatalogService) GetBrands(ctx context.Context) ([]models.Brand, error) {
	return s.Repo.GetBrands(ctx)
}

func (s *CatalogService) CreateBrand(ctx context.Context, req transport.CreateBrandRequest) (*models.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErr("name is required")
	}
	brand := models.Brand{Name: name}
	if err := s.Repo.CreateBrand(ctx, &brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}
	return &brand, nil
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErr("name is required")
	}
	category := models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, &category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Name == "":
		return validationErr("name is required")
	case p.ListedPrice < 0 || p.SellingPrice < 0:
		return validationErr("price cannot be negative")
	case p.Stock < 0:
		return validationErr("stock cannot be negative")
	}
	return nil
}

func (s *CatalogService) resolveRelations(ctx context.Context, p *models.Product, categoryIDs []uuid.UUID) error {
	brand, err := s.Repo.GetBrand(ctx, p.BrandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationErr("brand not found")
		}
		return fmt.Errorf("get brand: %w", err)
	}
	p.Brand = *brand

	categories, err := s.Repo.GetCategoriesByIDs(ctx, uniqueIDs(categoryIDs))
	if err != nil {
		return fmt.Errorf("get categories: %w", err)
	}
	if len(categories) != len(uniqueIDs(categoryIDs)) {
		return validationErr("one or more categories not found")
	}
	p.Categories = categories
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, p models.Product) {
	s.publish(ctx, p.ID, map[string]any{
		"type":      eventType,
		"productID": p.ID,
		"name":      p.Name,
		"active":    p.Active,
	})
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Error("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
}

func (s *CatalogService) publish(ctx context.Context, id uuid.UUID, event map[string]any) {
	if s.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Publisher.PublishEvent(ctx, events.TopicProduct, id.String(), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", events.TopicProduct, "error", err)
	}
}
