package handlers

import (
	"net/http"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderHandlersTestSuite struct {
	suite.Suite
	orders   *MockOrderService
	receipts *MockReceiptLinker
	handlers *OrderHandlers
	userID   uuid.UUID
	cartID   uuid.UUID
}

func (suite *OrderHandlersTestSuite) SetupTest() {
	suite.orders = &MockOrderService{}
	suite.receipts = &MockReceiptLinker{}
	suite.handlers = NewOrderHandlers(suite.orders, suite.receipts, discardLogger)
	suite.userID = uuid.New()
	suite.cartID = uuid.New()
}

func (suite *OrderHandlersTestSuite) TearDownTest() {
	suite.orders.AssertExpectations(suite.T())
	suite.receipts.AssertExpectations(suite.T())
}

func TestOrderHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlersTestSuite))
}

func (suite *OrderHandlersTestSuite) createBody() string {
	return `{"cart_id":"` + suite.cartID.String() + `"}`
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_Created() {
	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusUnpaid}
	suite.orders.On("CreateFromCart", mock.Anything, suite.userID, suite.cartID).Return(order, nil).Once()

	c, rec := newContext(http.MethodPost, "/v1/orders", suite.createBody())
	require.NoError(suite.T(), suite.handlers.CreateOrder(withViewer(c, suite.userID, false)))

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), order.ID.String())
	assert.Contains(suite.T(), rec.Body.String(), `"status":"unpaid"`)
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_EmptyCart() {
	suite.orders.On("CreateFromCart", mock.Anything, suite.userID, suite.cartID).Return(nil, services.ErrEmptyCart).Once()

	c, rec := newContext(http.MethodPost, "/v1/orders", suite.createBody())
	require.NoError(suite.T(), suite.handlers.CreateOrder(withViewer(c, suite.userID, false)))

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "VALIDATION_ERROR")
	assert.Contains(suite.T(), rec.Body.String(), `"cart_id":"cart is empty"`)
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_UnknownCart() {
	suite.orders.On("CreateFromCart", mock.Anything, suite.userID, suite.cartID).Return(nil, services.ErrNoCart).Once()

	c, rec := newContext(http.MethodPost, "/v1/orders", suite.createBody())
	require.NoError(suite.T(), suite.handlers.CreateOrder(withViewer(c, suite.userID, false)))

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"cart_id":"no cart with this id"`)
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_InvalidCartID() {
	c, rec := newContext(http.MethodPost, "/v1/orders", `{"cart_id":"nope"}`)
	require.NoError(suite.T(), suite.handlers.CreateOrder(withViewer(c, suite.userID, false)))

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	suite.orders.AssertNotCalled(suite.T(), "CreateFromCart", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_Anonymous() {
	c, rec := newContext(http.MethodPost, "/v1/orders", suite.createBody())
	require.NoError(suite.T(), suite.handlers.CreateOrder(c))

	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestGetOrder_OtherCustomer() {
	id := uuid.New()
	viewer := services.Viewer{UserID: suite.userID}
	suite.orders.On("Get", mock.Anything, viewer, id).Return(nil, errors.NotFoundf("order %s", id)).Once()

	c, rec := newContext(http.MethodGet, "/v1/orders/"+id.String(), "", "id", id.String())
	require.NoError(suite.T(), suite.handlers.GetOrder(withViewer(c, suite.userID, false)))

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Order not found")
}

func (suite *OrderHandlersTestSuite) TestUpdateOrderStatus_Invalid() {
	id := uuid.New()
	err := &services.FieldError{Field: "status", Message: "must be one of unpaid, paid, canceled"}
	suite.orders.On("UpdateStatus", mock.Anything, id, "shipped").Return(nil, err).Once()

	c, rec := newContext(http.MethodPatch, "/v1/orders/"+id.String(), `{"status":"shipped"}`, "id", id.String())
	require.NoError(suite.T(), suite.handlers.UpdateOrderStatus(withViewer(c, suite.userID, true)))

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"status":"must be one of unpaid, paid, canceled"`)
}

func (suite *OrderHandlersTestSuite) TestDeleteOrder_StoreFailure() {
	id := uuid.New()
	suite.orders.On("Delete", mock.Anything, id).Return(errors.New("connection reset")).Once()

	c, rec := newContext(http.MethodDelete, "/v1/orders/"+id.String(), "", "id", id.String())
	require.NoError(suite.T(), suite.handlers.DeleteOrder(withViewer(c, suite.userID, true)))

	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	assert.NotContains(suite.T(), rec.Body.String(), "connection reset")
}

func (suite *OrderHandlersTestSuite) TestGetOrderReceipt() {
	id := uuid.New()
	viewer := services.Viewer{UserID: suite.userID}
	suite.orders.On("Get", mock.Anything, viewer, id).Return(&models.Order{ID: id}, nil).Once()
	suite.receipts.On("URL", mock.Anything, id).Return("https://minio.local/orders/x.json?sig=1", nil).Once()

	c, rec := newContext(http.MethodGet, "/v1/orders/"+id.String()+"/receipt", "", "id", id.String())
	require.NoError(suite.T(), suite.handlers.GetOrderReceipt(withViewer(c, suite.userID, false)))

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "sig=1")
}

func (suite *OrderHandlersTestSuite) TestGetOrderReceipt_HiddenOrder() {
	id := uuid.New()
	suite.orders.On("Get", mock.Anything, mock.Anything, id).Return(nil, errors.NotFoundf("order %s", id)).Once()

	c, rec := newContext(http.MethodGet, "/v1/orders/"+id.String()+"/receipt", "", "id", id.String())
	require.NoError(suite.T(), suite.handlers.GetOrderReceipt(withViewer(c, suite.userID, false)))

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	suite.receipts.AssertNumberOfCalls(suite.T(), "URL", 0)
}

func TestGetOrderReceipt_Disabled(t *testing.T) {
	h := NewOrderHandlers(&MockOrderService{}, nil, discardLogger)
	id := uuid.New()

	c, rec := newContext(http.MethodGet, "/v1/orders/"+id.String()+"/receipt", "", "id", id.String())
	require.NoError(t, h.GetOrderReceipt(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRespondError_InUse(t *testing.T) {
	c, rec := newContext(http.MethodDelete, "/v1/categories/x", "")
	require.NoError(t, respondError(c, discardLogger, "Category", errors.Annotate(services.ErrInUse, "delete category")))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")
}
