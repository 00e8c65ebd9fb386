package services

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/caching"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete refuses with ErrInUse while products still belong to the category.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
	logger       *slog.Logger
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository, cacheService caching.CacheService, logger *slog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cacheService: cacheService,
		logger:       logger,
	}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	if err := s.validate(ctx, category); err != nil {
		return err
	}
	category.ID = uuid.New()
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if cached, err := s.cacheService.GetCategory(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.WarnContext(ctx, "category cache read failed", "category_id", id, "error", err)
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetCategory(ctx, category); err != nil {
		s.logger.WarnContext(ctx, "category cache write failed", "category_id", id, "error", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, category *models.Category) error {
	if err := s.validate(ctx, category); err != nil {
		return err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	s.invalidate(ctx, category.ID)
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *categoryService) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx, limit, offset)
}

func (s *categoryService) validate(ctx context.Context, category *models.Category) error {
	category.Title = strings.TrimSpace(category.Title)
	switch {
	case category.Title == "":
		return invalidField("title", "this field is required")
	case len(category.Title) > maxNameLength:
		return invalidField("title", "ensure this field has no more than 255 characters")
	case len(category.Description) > maxDescriptionLength:
		return invalidField("description", "ensure this field has no more than 500 characters")
	}

	if category.TopProductID != nil {
		if _, err := s.productRepo.GetByID(ctx, *category.TopProductID); err != nil {
			if errors.Is(err, errors.NotFound) {
				return invalidField("top_product_id", "no product with the given id was found")
			}
			return err
		}
	}
	return nil
}

func (s *categoryService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteCategory(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "category cache invalidation failed", "category_id", id, "error", err)
	}
}
