package handlers

import (
	"log/slog"
	"net/http"

	"storefront/internal/common"
	"storefront/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CartHandlers serves anonymous carts and their items.
type CartHandlers struct {
	cartService services.CartService
	logger      *slog.Logger
}

func NewCartHandlers(cartService services.CartService, logger *slog.Logger) *CartHandlers {
	return &CartHandlers{cartService: cartService, logger: logger}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func cartParams(c echo.Context, withItem bool) (cartID, itemID uuid.UUID, err error) {
	cartID, err = common.ValidateUUID(c.Param("cart_id"), "cart_id")
	if err != nil || !withItem {
		return cartID, uuid.Nil, err
	}
	itemID, err = common.ValidateUUID(c.Param("id"), "id")
	return cartID, itemID, err
}

// CreateCart handles POST /carts
func (h *CartHandlers) CreateCart(c echo.Context) error {
	cart, err := h.cartService.Create(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, "Cart", err)
	}
	return c.JSON(http.StatusCreated, cart)
}

// GetCart handles GET /carts/:cart_id
func (h *CartHandlers) GetCart(c echo.Context) error {
	cartID, _, err := cartParams(c, false)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	cart, err := h.cartService.Get(c.Request().Context(), cartID)
	if err != nil {
		return respondError(c, h.logger, "Cart", err)
	}
	return c.JSON(http.StatusOK, cart)
}

// DeleteCart handles DELETE /carts/:cart_id
func (h *CartHandlers) DeleteCart(c echo.Context) error {
	cartID, _, err := cartParams(c, false)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.cartService.Delete(c.Request().Context(), cartID); err != nil {
		return respondError(c, h.logger, "Cart", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCartItems handles GET /carts/:cart_id/items
func (h *CartHandlers) ListCartItems(c echo.Context) error {
	cartID, _, err := cartParams(c, false)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	items, err := h.cartService.ListItems(c.Request().Context(), cartID)
	if err != nil {
		return respondError(c, h.logger, "Cart", err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetCartItem handles GET /carts/:cart_id/items/:id
func (h *CartHandlers) GetCartItem(c echo.Context) error {
	cartID, itemID, err := cartParams(c, true)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	item, err := h.cartService.GetItem(c.Request().Context(), cartID, itemID)
	if err != nil {
		return respondError(c, h.logger, "Cart item", err)
	}
	return c.JSON(http.StatusOK, item)
}

// AddCartItem handles POST /carts/:cart_id/items. Adding a product that is
// already in the cart increases its quantity.
func (h *CartHandlers) AddCartItem(c echo.Context) error {
	cartID, _, err := cartParams(c, false)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", err.Error())
	}

	item, err := h.cartService.AddItem(c.Request().Context(), cartID, productID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Cart", err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateCartItem handles PATCH /carts/:cart_id/items/:id
func (h *CartHandlers) UpdateCartItem(c echo.Context) error {
	cartID, itemID, err := cartParams(c, true)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	item, err := h.cartService.UpdateItemQuantity(c.Request().Context(), cartID, itemID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Cart item", err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteCartItem handles DELETE /carts/:cart_id/items/:id
func (h *CartHandlers) DeleteCartItem(c echo.Context) error {
	cartID, itemID, err := cartParams(c, true)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.cartService.DeleteItem(c.Request().Context(), cartID, itemID); err != nil {
		return respondError(c, h.logger, "Cart item", err)
	}
	return c.NoContent(http.StatusNoContent)
}
