package repositories

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
}

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `p.id, p.category_id, p.name, p.slug, p.description, p.unit_price, p.inventory, p.created_at, p.updated_at`

var productSortColumns = map[string]string{
	"name":       "p.name",
	"unit_price": "p.unit_price",
	"inventory":  "p.inventory",
	"created_at": "p.created_at",
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, category_id, name, slug, description, unit_price, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, product.ID, product.CategoryID, product.Name, product.Slug, product.Description, product.UnitPrice, product.Inventory).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotValidf("category %s", product.CategoryID)
		}
		return errors.Annotate(err, "insert product")
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.CategoryID, &product.Name, &product.Slug, &product.Description, &product.UnitPrice, &product.Inventory, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFoundf("product %s", id)
		}
		return nil, errors.Annotate(err, "select product")
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, slug = $3, description = $4, unit_price = $5, inventory = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, product.CategoryID, product.Name, product.Slug, product.Description, product.UnitPrice, product.Inventory, product.ID).
		Scan(&product.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return errors.NotFoundf("product %s", product.ID)
		}
		if isForeignKeyViolation(err) {
			return errors.NotValidf("category %s", product.CategoryID)
		}
		return errors.Annotate(err, "update product")
	}
	return nil
}

// Delete removes a product. Products referenced by order items are protected.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrInUse
		}
		return errors.Annotate(err, "delete product")
	}
	return requireAffected(tag, "product", id)
}

func (r *productRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter == nil {
		filter = &models.ProductSearchFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	query := `SELECT ` + productColumns + ` FROM products p JOIN categories c ON c.id = p.category_id WHERE 1=1`
	args := []any{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		query += fmt.Sprintf(" AND (p.name ILIKE $%d OR c.title ILIKE $%d)", len(args), len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}
	if filter.Inventory != nil {
		args = append(args, *filter.Inventory)
		query += fmt.Sprintf(" AND p.inventory = $%d", len(args))
	}

	sortColumn, ok := productSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "p.name"
	}
	direction := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, p.id", sortColumn, direction)

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Annotate(err, "select products")
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Slug, &product.Description, &product.UnitPrice, &product.Inventory, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, errors.Annotate(err, "scan product")
		}
		products = append(products, product)
	}
	return products, errors.Annotate(rows.Err(), "iterate products")
}
