package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
}

type categoryRepo struct {
	db DBTX
}

func NewCategoryRepo(db DBTX) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, title, description, top_product_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.Title, category.Description, category.TopProductID)
	if isForeignKeyViolation(err) {
		return errors.NotValidf("top product %v", category.TopProductID)
	}
	return errors.Annotate(err, "insert category")
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT c.id, c.title, c.description, c.top_product_id,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS num_of_products
		FROM categories c
		WHERE c.id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&category.ID, &category.Title, &category.Description, &category.TopProductID, &category.NumOfProducts)
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFoundf("category %s", id)
		}
		return nil, errors.Annotate(err, "select category")
	}
	return category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET title = $1, description = $2, top_product_id = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, category.Title, category.Description, category.TopProductID, category.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotValidf("top product %v", category.TopProductID)
		}
		return errors.Annotate(err, "update category")
	}
	return requireAffected(tag, "category", category.ID)
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrInUse
		}
		return errors.Annotate(err, "delete category")
	}
	return requireAffected(tag, "category", id)
}

func (r *categoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	query := `
		SELECT c.id, c.title, c.description, c.top_product_id,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS num_of_products
		FROM categories c
		ORDER BY c.title ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.Annotate(err, "select categories")
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Title, &category.Description, &category.TopProductID, &category.NumOfProducts); err != nil {
			return nil, errors.Annotate(err, "scan category")
		}
		categories = append(categories, category)
	}
	return categories, errors.Annotate(rows.Err(), "iterate categories")
}
