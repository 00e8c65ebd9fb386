package services

import (
	"context"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type CommentService interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, productID, id uuid.UUID) (*models.Comment, error)
	// Update changes name and body. Only staff may change the moderation status.
	Update(ctx context.Context, viewer Viewer, comment *models.Comment) error
	Delete(ctx context.Context, productID, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.Comment, error)
}

type commentService struct {
	commentRepo repositories.CommentRepository
	productRepo repositories.ProductRepository
}

func NewCommentService(commentRepo repositories.CommentRepository, productRepo repositories.ProductRepository) CommentService {
	return &commentService{commentRepo: commentRepo, productRepo: productRepo}
}

func (s *commentService) Create(ctx context.Context, comment *models.Comment) error {
	if err := validateComment(comment); err != nil {
		return err
	}
	if err := s.requireProduct(ctx, comment.ProductID); err != nil {
		return err
	}
	comment.ID = uuid.New()
	comment.Status = models.CommentStatusWaiting
	return s.commentRepo.Create(ctx, comment)
}

func (s *commentService) GetByID(ctx context.Context, productID, id uuid.UUID) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, productID, id)
}

func (s *commentService) Update(ctx context.Context, viewer Viewer, comment *models.Comment) error {
	if err := validateComment(comment); err != nil {
		return err
	}
	existing, err := s.commentRepo.GetByID(ctx, comment.ProductID, comment.ID)
	if err != nil {
		return err
	}

	switch {
	case comment.Status == "" || comment.Status == existing.Status:
		comment.Status = existing.Status
	case !viewer.IsStaff:
		return invalidField("status", "only staff may change the status")
	case !models.ValidCommentStatus(comment.Status):
		return invalidField("status", "must be one of waiting, approved, not_approved")
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return err
	}
	comment.CreatedAt = existing.CreatedAt
	return nil
}

func (s *commentService) Delete(ctx context.Context, productID, id uuid.UUID) error {
	return s.commentRepo.Delete(ctx, productID, id)
}

func (s *commentService) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.Comment, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByProduct(ctx, productID, limit, offset)
}

func (s *commentService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, errors.NotFound) {
			return errors.NotFoundf("product %s", productID)
		}
		return err
	}
	return nil
}

func validateComment(comment *models.Comment) error {
	comment.Name = strings.TrimSpace(comment.Name)
	switch {
	case comment.Name == "":
		return invalidField("name", "this field is required")
	case len(comment.Name) > maxNameLength:
		return invalidField("name", "ensure this field has no more than 255 characters")
	case strings.TrimSpace(comment.Body) == "":
		return invalidField("body", "this field is required")
	case len(comment.Body) > maxDescriptionLength:
		return invalidField("body", "ensure this field has no more than 500 characters")
	}
	return nil
}
