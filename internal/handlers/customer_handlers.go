package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/internal/common"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	birthDateLayout = "2006-01-02"

	// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
	SignatureHeader = "X-Identity-Signature"

	identityUserCreated = "user.created"
)

// CustomerHandlers serves customer records and the identity provider webhook.
type CustomerHandlers struct {
	customerService services.CustomerService
	webhookSecret   string
	logger          *slog.Logger
}

func NewCustomerHandlers(customerService services.CustomerService, webhookSecret string, logger *slog.Logger) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService, webhookSecret: webhookSecret, logger: logger}
}

type customerRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	BirthDate   *string `json:"birth_date"`
}

func parseBirthDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func identityFromClaims(c echo.Context) (services.IdentityUser, bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return services.IdentityUser{}, false
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return services.IdentityUser{}, false
	}
	return services.IdentityUser{
		ID:        id,
		Email:     claims.Email,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
	}, true
}

// GetMe handles GET /customers/me
func (h *CustomerHandlers) GetMe(c echo.Context) error {
	user, ok := identityFromClaims(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customer, err := h.customerService.Me(c.Request().Context(), user)
	if err != nil {
		return respondError(c, h.logger, "Customer", err)
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateMe handles PUT /customers/me. Only phone_number and birth_date are
// writable by the customer.
func (h *CustomerHandlers) UpdateMe(c echo.Context) error {
	user, ok := identityFromClaims(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return common.SendValidationError(c, "birth_date", "must be a date in YYYY-MM-DD format")
	}

	customer, err := h.customerService.UpdateMe(c.Request().Context(), user, services.ProfileUpdate{
		PhoneNumber: req.PhoneNumber,
		BirthDate:   birthDate,
	})
	if err != nil {
		return respondError(c, h.logger, "Customer", err)
	}
	return c.JSON(http.StatusOK, customer)
}

// ListCustomers handles GET /customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	customers, err := h.customerService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.logger, "Customer", err)
	}
	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	customer, err := h.customerService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Customer", err)
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return common.SendValidationError(c, "birth_date", "must be a date in YYYY-MM-DD format")
	}

	customer := &models.Customer{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		BirthDate:   birthDate,
	}
	if err := h.customerService.Update(c.Request().Context(), customer); err != nil {
		return respondError(c, h.logger, "Customer", err)
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customers/:id
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.customerService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, "Customer", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// identityEvent is the identity provider's webhook envelope.
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data"`
}

func (h *CustomerHandlers) verifySignature(signature string, body []byte) bool {
	if h.webhookSecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected))
}

// IdentityWebhook handles POST /webhooks/identity. user.created provisions the
// customer record; other event types are acknowledged and ignored.
func (h *CustomerHandlers) IdentityWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return common.SendClientError(c, "Failed to read request body")
	}

	signature := c.Request().Header.Get(SignatureHeader)
	if signature == "" {
		return common.SendClientError(c, "Missing webhook signature")
	}
	if !h.verifySignature(signature, body) {
		return common.SendUnauthorizedError(c)
	}

	var ev identityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return common.SendClientError(c, "Invalid webhook payload")
	}
	if ev.Type != identityUserCreated {
		h.logger.InfoContext(c.Request().Context(), "ignoring identity event", "type", ev.Type)
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored", "event": ev.Type})
	}

	userID, err := common.ValidateUUID(ev.Data.ID, "data.id")
	if err != nil {
		return common.SendValidationError(c, "data.id", err.Error())
	}
	customer, err := h.customerService.Provision(c.Request().Context(), services.IdentityUser{
		ID:        userID,
		Email:     ev.Data.Email,
		FirstName: ev.Data.FirstName,
		LastName:  ev.Data.LastName,
	})
	if err != nil {
		return respondError(c, h.logger, "Customer", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":      "success",
		"event":       ev.Type,
		"customer_id": customer.ID.String(),
	})
}
