package handlers

import (
	"log/slog"
	"net/http"

	"storefront/internal/common"
	"storefront/internal/services"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
)

// respondError maps service errors onto the JSON error envelope. Anything
// unrecognised is logged and reported as a generic server error.
func respondError(c echo.Context, logger *slog.Logger, resource string, err error) error {
	var fieldErr *services.FieldError
	switch {
	case errors.As(err, &fieldErr):
		details := map[string]string{fieldErr.Field: fieldErr.Message}
		if errors.Is(fieldErr, errors.NotFound) {
			return c.JSON(http.StatusNotFound, common.CreateErrorResponse("NOT_FOUND", fieldErr.Message, details))
		}
		return c.JSON(http.StatusBadRequest, common.CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
	case errors.Is(err, errors.NotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrInUse):
		return common.SendConflictError(c, resource+" is still referenced and cannot be deleted")
	case errors.Is(err, errors.NotValid):
		return common.SendClientError(c, err.Error())
	}

	logger.ErrorContext(c.Request().Context(), "request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"error", errors.ErrorStack(err),
	)
	return common.SendServerError(c, "Internal server error")
}

func viewerFrom(c echo.Context) services.Viewer {
	ctx := c.Request().Context()
	userID, _ := common.GetUserIDFromContext(ctx)
	return services.Viewer{UserID: userID, IsStaff: common.IsStaffFromContext(ctx)}
}
