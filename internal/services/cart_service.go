package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

const maxCartItemQuantity = 32767

type CartService interface {
	Create(ctx context.Context) (*models.Cart, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AddItem merges quantity into an existing line for the product or opens a new one.
	AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]*models.CartItem, error)
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

type cartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

func (s *cartService) Create(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{ID: uuid.New(), Items: []*models.CartItem{}}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	cart.ComputeTotals()
	return cart, nil
}

func (s *cartService) Get(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	cart.ComputeTotals()
	return cart, nil
}

func (s *cartService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.carts.Delete(ctx, id)
}

func (s *cartService) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.requireCart(ctx, cartID); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, invalidField("product_id", "no product with the given id was found")
		}
		return nil, err
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.carts.UpsertItem(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrQuantityOutOfRange) {
			return nil, invalidField("quantity", "is too large")
		}
		return nil, err
	}

	item.Product = models.CartProduct{ID: product.ID, Name: product.Name, UnitPrice: product.UnitPrice}
	item.ItemTotal = lineTotal(item)
	return item, nil
}

func (s *cartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]*models.CartItem, error) {
	if err := s.requireCart(ctx, cartID); err != nil {
		return nil, err
	}
	items, err := s.carts.ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.ItemTotal = lineTotal(item)
	}
	return items, nil
}

func (s *cartService) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.carts.GetItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	item.ItemTotal = lineTotal(item)
	return item, nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.carts.UpdateItemQuantity(ctx, cartID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.GetItem(ctx, cartID, itemID)
}

func (s *cartService) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return s.carts.DeleteItem(ctx, cartID, itemID)
}

func (s *cartService) requireCart(ctx context.Context, cartID uuid.UUID) error {
	ok, err := s.carts.Exists(ctx, cartID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFoundf("cart %s", cartID)
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return invalidField("quantity", "must be a positive integer")
	}
	if quantity > maxCartItemQuantity {
		return invalidField("quantity", "is too large")
	}
	return nil
}

func lineTotal(item *models.CartItem) decimal.Decimal {
	return item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
