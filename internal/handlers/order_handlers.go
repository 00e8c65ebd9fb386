package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/common"
	"storefront/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReceiptLinker hands out a short-lived download link for an archived order.
type ReceiptLinker interface {
	URL(ctx context.Context, orderID uuid.UUID) (string, error)
}

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderService
	receipts     ReceiptLinker
	logger       *slog.Logger
}

// NewOrderHandlers creates order handlers. receipts may be nil when no object
// store is configured.
func NewOrderHandlers(orderService services.OrderService, receipts ReceiptLinker, logger *slog.Logger) *OrderHandlers {
	return &OrderHandlers{orderService: orderService, receipts: receipts, logger: logger}
}

type createOrderRequest struct {
	CartID string `json:"cart_id"`
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	viewer := viewerFrom(c)
	if viewer.UserID == uuid.Nil {
		return common.SendUnauthorizedError(c)
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cartID, err := common.ValidateUUID(req.CartID, "cart_id")
	if err != nil {
		return common.SendValidationError(c, "cart_id", err.Error())
	}

	order, err := h.orderService.CreateFromCart(c.Request().Context(), viewer.UserID, cartID)
	if err != nil {
		return respondError(c, h.logger, "Customer", err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders. Staff see every order, customers their own.
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orders, err := h.orderService.List(c.Request().Context(), viewerFrom(c), limit, offset)
	if err != nil {
		return respondError(c, h.logger, "Order", err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderService.Get(c.Request().Context(), viewerFrom(c), id)
	if err != nil {
		return respondError(c, h.logger, "Order", err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /orders/:id
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return respondError(c, h.logger, "Order", err)
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.orderService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, "Order", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetOrderReceipt handles GET /orders/:id/receipt. The caller must be able to
// see the order; the response carries a presigned link to the archived snapshot.
func (h *OrderHandlers) GetOrderReceipt(c echo.Context) error {
	if h.receipts == nil {
		return common.SendNotFoundError(c, "Receipt")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.orderService.Get(ctx, viewerFrom(c), id); err != nil {
		return respondError(c, h.logger, "Order", err)
	}
	url, err := h.receipts.URL(ctx, id)
	if err != nil {
		return respondError(c, h.logger, "Receipt", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"order_id": id.String(), "url": url})
}
