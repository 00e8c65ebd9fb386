package services

import (
	"context"
	"log/slog"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// EventPublisher hands committed domain events to best-effort subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event)
}

type OrderService interface {
	// CreateFromCart converts the cart into an unpaid order for the user's
	// customer record and deletes the cart, all in one transaction.
	CreateFromCart(ctx context.Context, userID, cartID uuid.UUID) (*models.Order, error)
	Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, viewer Viewer, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	tx        repositories.Transactor
	orders    repositories.OrderRepository
	customers repositories.CustomerRepository
	bus       EventPublisher
	logger    *slog.Logger
}

func NewOrderService(tx repositories.Transactor, orders repositories.OrderRepository, customers repositories.CustomerRepository, bus EventPublisher, logger *slog.Logger) OrderService {
	return &orderService{
		tx:        tx,
		orders:    orders,
		customers: customers,
		bus:       bus,
		logger:    logger,
	}
}

func (s *orderService) CreateFromCart(ctx context.Context, userID, cartID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, store repositories.CheckoutStore) error {
		cart, err := store.FindCartWithItems(ctx, cartID)
		if err != nil {
			if errors.Is(err, errors.NotFound) {
				return ErrNoCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		customer, err := store.FindCustomerByUser(ctx, userID)
		if err != nil {
			return err
		}

		order = &models.Order{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			Status:     models.OrderStatusUnpaid,
		}
		if err := store.CreateOrder(ctx, order); err != nil {
			return err
		}

		items := make([]*models.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			items = append(items, &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: ci.Product.UnitPrice,
				Product: models.OrderItemProduct{
					ID:        ci.ProductID,
					Name:      ci.Product.Name,
					UnitPrice: ci.Product.UnitPrice,
				},
			})
		}
		if err := store.BulkInsertOrderItems(ctx, items); err != nil {
			return err
		}
		order.Items = items

		if err := store.DeleteCart(ctx, cartID); err != nil {
			if errors.Is(err, errors.NotFound) {
				return ErrNoCart
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order created from cart", "order_id", order.ID, "cart_id", cartID, "items", len(order.Items))
	s.bus.Publish(ctx, events.NewOrderCreated(order))

	return order, nil
}

func (s *orderService) Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer.IsStaff {
		return order, nil
	}

	customer, err := s.customers.GetByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, errors.NotFoundf("order %s", id)
		}
		return nil, err
	}
	if order.CustomerID != customer.ID {
		return nil, errors.NotFoundf("order %s", id)
	}
	order.Customer = nil
	return order, nil
}

func (s *orderService) List(ctx context.Context, viewer Viewer, limit, offset int) ([]*models.Order, error) {
	filter := &models.OrderSearchFilter{Limit: limit, Offset: offset}
	if !viewer.IsStaff {
		customer, err := s.customers.GetByUserID(ctx, viewer.UserID)
		if err != nil {
			if errors.Is(err, errors.NotFound) {
				return []*models.Order{}, nil
			}
			return nil, err
		}
		filter.CustomerID = &customer.ID
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if !viewer.IsStaff {
		for _, o := range orders {
			o.Customer = nil
		}
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, invalidField("status", "must be one of unpaid, paid, canceled")
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orders.Delete(ctx, id)
}
