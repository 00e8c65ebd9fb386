package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// CheckoutStore is the set of operations the cart to order conversion needs.
// Instances are bound to a single transaction.
type CheckoutStore interface {
	FindCartWithItems(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	FindCustomerByUser(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	BulkInsertOrderItems(ctx context.Context, items []*models.OrderItem) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}

// Transactor runs work inside a database transaction.
type Transactor interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	// Errors from fn are returned unchanged.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, store CheckoutStore) error) error
}

type checkoutStore struct {
	carts     CartRepository
	customers CustomerRepository
	orders    OrderRepository
}

func NewCheckoutStore(db DBTX) CheckoutStore {
	return &checkoutStore{
		carts:     NewCartRepo(db),
		customers: NewCustomerRepo(db),
		orders:    NewOrderRepo(db),
	}
}

func (s *checkoutStore) FindCartWithItems(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	return s.carts.GetWithItemsForUpdate(ctx, cartID)
}

func (s *checkoutStore) FindCustomerByUser(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	return s.customers.GetByUserID(ctx, userID)
}

func (s *checkoutStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.orders.Create(ctx, order)
}

func (s *checkoutStore) BulkInsertOrderItems(ctx context.Context, items []*models.OrderItem) error {
	return s.orders.BulkInsertItems(ctx, items)
}

func (s *checkoutStore) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return s.carts.Delete(ctx, cartID)
}

type pgTransactor struct {
	db TxBeginner
}

func NewTransactor(db TxBeginner) Transactor {
	return &pgTransactor{db: db}
}

func (t *pgTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store CheckoutStore) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return errors.Annotate(err, "begin tx")
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewCheckoutStore(tx)); err != nil {
		return err
	}

	return errors.Annotate(tx.Commit(ctx), "commit tx")
}
