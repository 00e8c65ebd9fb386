package handlers

import (
	"log/slog"
	"net/http"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// commentRequest is the writable part of a comment.
type commentRequest struct {
	Name   string `json:"name"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

// CommentHandlers serves comments nested under /products/:product_id.
type CommentHandlers struct {
	commentService services.CommentService
	logger         *slog.Logger
}

func NewCommentHandlers(commentService services.CommentService, logger *slog.Logger) *CommentHandlers {
	return &CommentHandlers{commentService: commentService, logger: logger}
}

func (h *CommentHandlers) ids(c echo.Context, withID bool) (productID, id uuid.UUID, err error) {
	productID, err = common.ValidateUUID(c.Param("product_id"), "product_id")
	if err != nil || !withID {
		return productID, uuid.Nil, err
	}
	id, err = common.ValidateUUID(c.Param("id"), "id")
	return productID, id, err
}

// ListComments handles GET /products/:product_id/comments
func (h *CommentHandlers) ListComments(c echo.Context) error {
	productID, _, err := h.ids(c, false)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	comments, err := h.commentService.ListByProduct(c.Request().Context(), productID, limit, offset)
	if err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, comments)
}

// GetComment handles GET /products/:product_id/comments/:id
func (h *CommentHandlers) GetComment(c echo.Context) error {
	productID, id, err := h.ids(c, true)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	comment, err := h.commentService.GetByID(c.Request().Context(), productID, id)
	if err != nil {
		return respondError(c, h.logger, "Comment", err)
	}
	return c.JSON(http.StatusOK, comment)
}

// CreateComment handles POST /products/:product_id/comments
func (h *CommentHandlers) CreateComment(c echo.Context) error {
	productID, _, err := h.ids(c, false)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	comment := &models.Comment{ProductID: productID, Name: req.Name, Body: req.Body}
	if err := h.commentService.Create(c.Request().Context(), comment); err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment handles PUT /products/:product_id/comments/:id
func (h *CommentHandlers) UpdateComment(c echo.Context) error {
	productID, id, err := h.ids(c, true)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	comment := &models.Comment{ID: id, ProductID: productID, Name: req.Name, Body: req.Body, Status: req.Status}
	if err := h.commentService.Update(c.Request().Context(), viewerFrom(c), comment); err != nil {
		return respondError(c, h.logger, "Comment", err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment handles DELETE /products/:product_id/comments/:id
func (h *CommentHandlers) DeleteComment(c echo.Context) error {
	productID, id, err := h.ids(c, true)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.commentService.Delete(c.Request().Context(), productID, id); err != nil {
		return respondError(c, h.logger, "Comment", err)
	}
	return c.NoContent(http.StatusNoContent)
}
