package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, productID, id uuid.UUID) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, productID, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.Comment, error)
}

type commentRepo struct {
	db DBTX
}

func NewCommentRepo(db DBTX) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, product_id, name, body, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, comment.ID, comment.ProductID, comment.Name, comment.Body, comment.Status).Scan(&comment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotFoundf("product %s", comment.ProductID)
		}
		return errors.Annotate(err, "insert comment")
	}
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, productID, id uuid.UUID) (*models.Comment, error) {
	comment := &models.Comment{}
	query := `
		SELECT id, product_id, name, body, status, created_at
		FROM comments
		WHERE product_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, productID, id).Scan(&comment.ID, &comment.ProductID, &comment.Name, &comment.Body, &comment.Status, &comment.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFoundf("comment %s", id)
		}
		return nil, errors.Annotate(err, "select comment")
	}
	return comment, nil
}

func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET name = $1, body = $2, status = $3
		WHERE product_id = $4 AND id = $5
	`
	tag, err := r.db.Exec(ctx, query, comment.Name, comment.Body, comment.Status, comment.ProductID, comment.ID)
	if err != nil {
		return errors.Annotate(err, "update comment")
	}
	return requireAffected(tag, "comment", comment.ID)
}

func (r *commentRepo) Delete(ctx context.Context, productID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE product_id = $1 AND id = $2`, productID, id)
	if err != nil {
		return errors.Annotate(err, "delete comment")
	}
	return requireAffected(tag, "comment", id)
}

func (r *commentRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.Comment, error) {
	query := `
		SELECT id, product_id, name, body, status, created_at
		FROM comments
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, errors.Annotate(err, "select comments")
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(&comment.ID, &comment.ProductID, &comment.Name, &comment.Body, &comment.Status, &comment.CreatedAt); err != nil {
			return nil, errors.Annotate(err, "scan comment")
		}
		comments = append(comments, comment)
	}
	return comments, errors.Annotate(rows.Err(), "iterate comments")
}
