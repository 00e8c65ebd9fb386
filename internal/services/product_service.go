package services

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/caching"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 500
)

// unit_price is NUMERIC(6,2).
var maxUnitPrice = decimal.RequireFromString("9999.99")

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	cacheService caching.CacheService
	logger       *slog.Logger
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, cacheService caching.CacheService, logger *slog.Logger) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cacheService: cacheService,
		logger:       logger,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if err := s.validate(ctx, product); err != nil {
		return err
	}
	product.ID = uuid.New()
	product.Slug = slug.Make(product.Name)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.invalidateCategory(ctx, product.CategoryID)
	return nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetProduct(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "product cache write failed", "product_id", id, "error", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	if err := s.validate(ctx, product); err != nil {
		return err
	}
	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}

	product.Slug = slug.Make(product.Name)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	product.CreatedAt = existing.CreatedAt

	s.invalidateProduct(ctx, product.ID)
	s.invalidateCategory(ctx, existing.CategoryID)
	if existing.CategoryID != product.CategoryID {
		s.invalidateCategory(ctx, product.CategoryID)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateProduct(ctx, id)
	s.invalidateCategory(ctx, existing.CategoryID)
	return nil
}

func (s *productService) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter.Inventory != nil && *filter.Inventory < 0 {
		return nil, invalidField("inventory", "must be zero or greater")
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.productRepo.List(ctx, filter)
}

func (s *productService) validate(ctx context.Context, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	switch {
	case len([]rune(product.Name)) < models.MinProductNameLength:
		return invalidField("name", "product name must be at least 6 characters long")
	case len(product.Name) > maxNameLength:
		return invalidField("name", "ensure this field has no more than 255 characters")
	case len(product.Description) > maxDescriptionLength:
		return invalidField("description", "ensure this field has no more than 500 characters")
	case !product.UnitPrice.IsPositive():
		return invalidField("unit_price", "must be greater than zero")
	case product.UnitPrice.GreaterThan(maxUnitPrice):
		return invalidField("unit_price", "ensure there are no more than 6 digits in total")
	case product.UnitPrice.Exponent() < -2 && !product.UnitPrice.Equal(product.UnitPrice.Round(2)):
		return invalidField("unit_price", "ensure there are no more than 2 decimal places")
	case product.Inventory < 0:
		return invalidField("inventory", "must be zero or greater")
	}

	if _, err := s.categoryRepo.GetByID(ctx, product.CategoryID); err != nil {
		if errors.Is(err, errors.NotFound) {
			return invalidField("category_id", "no category with the given id was found")
		}
		return err
	}
	return nil
}

func (s *productService) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteProduct(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed", "product_id", id, "error", err)
	}
}

// num_of_products is part of the cached category.
func (s *productService) invalidateCategory(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteCategory(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "category cache invalidation failed", "category_id", id, "error", err)
	}
}
