package repositories

import (
	"context"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	// GetWithItems loads the cart and its items joined with current product data.
	GetWithItems(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	// GetWithItemsForUpdate is GetWithItems holding a row lock on the cart until
	// the surrounding transaction ends. It must run inside a transaction.
	GetWithItemsForUpdate(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// UpsertItem adds quantity to the (cart, product) line, creating it if needed.
	UpsertItem(ctx context.Context, item *models.CartItem) error
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

type cartRepo struct {
	db DBTX
}

func NewCartRepo(db DBTX) CartRepository {
	return &cartRepo{db: db}
}

const cartItemSelect = `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, p.name, p.unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
`

func (r *cartRepo) Create(ctx context.Context, cart *models.Cart) error {
	err := r.db.QueryRow(ctx, `INSERT INTO carts (id, created_at) VALUES ($1, NOW()) RETURNING created_at`, cart.ID).Scan(&cart.CreatedAt)
	return errors.Annotate(err, "insert cart")
}

func (r *cartRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return r.getWithItems(ctx, `SELECT id, created_at FROM carts WHERE id = $1`, id)
}

func (r *cartRepo) GetWithItemsForUpdate(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return r.getWithItems(ctx, `SELECT id, created_at FROM carts WHERE id = $1 FOR UPDATE`, id)
}

func (r *cartRepo) getWithItems(ctx context.Context, cartQuery string, id uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{}
	if err := r.db.QueryRow(ctx, cartQuery, id).Scan(&cart.ID, &cart.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, errors.NotFoundf("cart %s", id)
		}
		return nil, errors.Annotate(err, "select cart")
	}

	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

func (r *cartRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM carts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, errors.Annotate(err, "check cart")
	}
	return exists, nil
}

func (r *cartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return errors.Annotate(err, "delete cart")
	}
	return requireAffected(tag, "cart", id)
}

func (r *cartRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, errors.Annotate(err, "delete stale carts")
	}
	return tag.RowsAffected(), nil
}

func (r *cartRepo) UpsertItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity
	`
	err := r.db.QueryRow(ctx, query, item.ID, item.CartID, item.ProductID, item.Quantity).Scan(&item.ID, &item.Quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotFoundf("cart %s or product %s", item.CartID, item.ProductID)
		}
		if isNumericOutOfRange(err) {
			return ErrQuantityOutOfRange
		}
		return errors.Annotate(err, "upsert cart item")
	}
	return nil
}

func (r *cartRepo) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	item := &models.CartItem{}
	query := cartItemSelect + `		WHERE ci.cart_id = $1 AND ci.id = $2`
	err := r.db.QueryRow(ctx, query, cartID, itemID).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Product.Name, &item.Product.UnitPrice)
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFoundf("cart item %s", itemID)
		}
		return nil, errors.Annotate(err, "select cart item")
	}
	item.Product.ID = item.ProductID
	return item, nil
}

func (r *cartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]*models.CartItem, error) {
	query := cartItemSelect + `		WHERE ci.cart_id = $1
		ORDER BY p.name, ci.id`
	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, errors.Annotate(err, "select cart items")
	}
	defer rows.Close()

	items := []*models.CartItem{}
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Product.Name, &item.Product.UnitPrice); err != nil {
			return nil, errors.Annotate(err, "scan cart item")
		}
		item.Product.ID = item.ProductID
		items = append(items, item)
	}
	return items, errors.Annotate(rows.Err(), "iterate cart items")
}

func (r *cartRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	tag, err := r.db.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE cart_id = $2 AND id = $3`, quantity, cartID, itemID)
	if err != nil {
		return errors.Annotate(err, "update cart item")
	}
	return requireAffected(tag, "cart item", itemID)
}

func (r *cartRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	if err != nil {
		return errors.Annotate(err, "delete cart item")
	}
	return requireAffected(tag, "cart item", itemID)
}
