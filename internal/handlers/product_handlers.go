package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
	logger         *slog.Logger
}

func NewProductHandlers(productService services.ProductService, logger *slog.Logger) *ProductHandlers {
	return &ProductHandlers{productService: productService, logger: logger}
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Inventory   int             `json:"inventory"`
	CategoryID  string          `json:"category_id"`
}

func (r *productRequest) toModel() (*models.Product, string, error) {
	categoryID, err := common.ValidateUUID(r.CategoryID, "category_id")
	if err != nil {
		return nil, "category_id", err
	}
	return &models.Product{
		CategoryID:  categoryID,
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   r.UnitPrice,
		Inventory:   r.Inventory,
	}, "", nil
}

// ListProducts handles GET /products
//
// Query: search, category_id, inventory, ordering (name, unit_price or
// inventory, prefixed with - for descending), limit, offset.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	filter := &models.ProductSearchFilter{
		Query:  c.QueryParam("search"),
		Limit:  limit,
		Offset: offset,
	}
	if v := c.QueryParam("category_id"); v != "" {
		categoryID, err := common.ValidateUUID(v, "category_id")
		if err != nil {
			return common.SendValidationError(c, "category_id", err.Error())
		}
		filter.CategoryID = &categoryID
	}
	if v := c.QueryParam("inventory"); v != "" {
		inv, err := strconv.Atoi(v)
		if err != nil {
			return common.SendValidationError(c, "inventory", "must be an integer")
		}
		filter.Inventory = &inv
	}
	if ordering := c.QueryParam("ordering"); ordering != "" {
		filter.SortBy, filter.SortOrder = common.ParseOrdering(ordering)
	}

	products, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	product, field, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	if err := h.productService.Create(c.Request().Context(), product); err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	product, field, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, field, err.Error())
	}
	product.ID = id

	if err := h.productService.Update(c.Request().Context(), product); err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.NoContent(http.StatusNoContent)
}
