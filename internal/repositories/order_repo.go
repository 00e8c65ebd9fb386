package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/juju/errors"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// BulkInsertItems writes every item in a single COPY round trip.
	BulkInsertItems(ctx context.Context, items []*models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

var orderItemColumns = []string{"id", "order_id", "product_id", "quantity", "unit_price"}

const orderSelect = `
		SELECT o.id, o.customer_id, o.status, o.created_at, c.first_name, c.last_name, c.email
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
`

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, status, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, order.ID, order.CustomerID, order.Status).Scan(&order.CreatedAt)
	return errors.Annotate(err, "insert order")
}

func (r *orderRepo) BulkInsertItems(ctx context.Context, items []*models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"order_items"}, orderItemColumns, pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
		item := items[i]
		var price pgtype.Numeric
		if err := price.Scan(item.UnitPrice.String()); err != nil {
			return nil, err
		}
		return []any{item.ID, item.OrderID, item.ProductID, item.Quantity, price}, nil
	}))
	if err != nil {
		return errors.Annotate(err, "copy order items")
	}
	if n != int64(len(items)) {
		return errors.Errorf("copied %d of %d order items", n, len(items))
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{Customer: &models.CustomerSummary{}}
	err := r.db.QueryRow(ctx, orderSelect+`		WHERE o.id = $1`, id).
		Scan(&order.ID, &order.CustomerID, &order.Status, &order.CreatedAt, &order.Customer.FirstName, &order.Customer.LastName, &order.Customer.Email)
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFoundf("order %s", id)
		}
		return nil, errors.Annotate(err, "select order")
	}
	order.Customer.ID = order.CustomerID

	if err := r.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	if filter == nil {
		filter = &models.OrderSearchFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	query := orderSelect + `		WHERE 1=1`
	args := []any{}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND o.customer_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND o.status = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY o.created_at DESC, o.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Annotate(err, "select orders")
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{Customer: &models.CustomerSummary{}}
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.Status, &order.CreatedAt, &order.Customer.FirstName, &order.Customer.LastName, &order.Customer.Email); err != nil {
			return nil, errors.Annotate(err, "scan order")
		}
		order.Customer.ID = order.CustomerID
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Annotate(err, "iterate orders")
	}
	rows.Close()

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of every order in one query.
func (r *orderRepo) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for _, o := range orders {
		o.Items = []*models.OrderItem{}
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, p.name, p.unit_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY p.name, oi.id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return errors.Annotate(err, "select order items")
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Product.Name, &item.Product.UnitPrice); err != nil {
			return errors.Annotate(err, "scan order item")
		}
		item.Product.ID = item.ProductID
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return errors.Annotate(rows.Err(), "iterate order items")
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return errors.Annotate(err, "update order status")
	}
	return requireAffected(tag, "order", id)
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return errors.Annotate(err, "delete order")
	}
	return requireAffected(tag, "order", id)
}
