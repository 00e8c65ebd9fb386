package handlers

import (
	"log/slog"
	"net/http"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categoryService services.CategoryService
	logger          *slog.Logger
}

func NewCategoryHandlers(categoryService services.CategoryService, logger *slog.Logger) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService, logger: logger}
}

type categoryRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TopProductID *string `json:"top_product_id"`
}

func (r *categoryRequest) toModel() (*models.Category, error) {
	category := &models.Category{Title: r.Title, Description: r.Description}
	if r.TopProductID != nil && *r.TopProductID != "" {
		id, err := common.ValidateUUID(*r.TopProductID, "top_product_id")
		if err != nil {
			return nil, err
		}
		category.TopProductID = &id
	}
	return category, nil
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	categories, err := h.categoryService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.logger, "Category", err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	category, err := h.categoryService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Category", err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	category, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, "top_product_id", err.Error())
	}

	if err := h.categoryService.Create(c.Request().Context(), category); err != nil {
		return respondError(c, h.logger, "Category", err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /categories/:id
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	category, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, "top_product_id", err.Error())
	}
	category.ID = id

	if err := h.categoryService.Update(c.Request().Context(), category); err != nil {
		return respondError(c, h.logger, "Category", err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id. Categories that still hold
// products are refused with 409.
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.categoryService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, "Category", err)
	}
	return c.NoContent(http.StatusNoContent)
}
