package handlers

import (
	"net/http"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListProducts_ParsesQuery(t *testing.T) {
	svc := &MockProductService{}
	h := NewProductHandlers(svc, discardLogger)
	categoryID := uuid.New()

	svc.On("List", mock.Anything, mock.MatchedBy(func(f *models.ProductSearchFilter) bool {
		return f.Query == "tea" &&
			f.CategoryID != nil && *f.CategoryID == categoryID &&
			f.Inventory != nil && *f.Inventory == 0 &&
			f.SortBy == "unit_price" && f.SortOrder == "DESC" &&
			f.Limit == 10 && f.Offset == 20
	})).Return([]*models.Product{{ID: uuid.New(), Name: "Green Tea"}}, nil).Once()

	target := "/v1/products?search=tea&category_id=" + categoryID.String() +
		"&inventory=0&ordering=-unit_price&limit=10&offset=20"
	c, rec := newContext(http.MethodGet, target, "")
	require.NoError(t, h.ListProducts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Green Tea")
	svc.AssertExpectations(t)
}

func TestListProducts_RejectsBadFilters(t *testing.T) {
	h := NewProductHandlers(&MockProductService{}, discardLogger)

	for _, target := range []string{
		"/v1/products?category_id=nope",
		"/v1/products?inventory=lots",
		"/v1/products?limit=ten",
	} {
		c, rec := newContext(http.MethodGet, target, "")
		require.NoError(t, h.ListProducts(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc := &MockProductService{}
	h := NewProductHandlers(svc, discardLogger)
	categoryID := uuid.New()

	svc.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.CategoryID == categoryID && p.UnitPrice.Equal(decimal.RequireFromString("4.50"))
	})).Return(errors.NotFoundf("category %s", categoryID)).Once()

	body := `{"name":"Green Tea","unit_price":"4.50","inventory":3,"category_id":"` + categoryID.String() + `"}`
	c, rec := newContext(http.MethodPost, "/v1/products", body)
	require.NoError(t, h.CreateProduct(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateProduct_BadCategoryID(t *testing.T) {
	h := NewProductHandlers(&MockProductService{}, discardLogger)

	c, rec := newContext(http.MethodPost, "/v1/products", `{"name":"Tea","category_id":"x"}`)
	require.NoError(t, h.CreateProduct(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category_id")
}

func TestListCategories_Pagination(t *testing.T) {
	svc := &MockCategoryService{}
	h := NewCategoryHandlers(svc, discardLogger)

	svc.On("List", mock.Anything, 5, 0).Return([]*models.Category{{ID: uuid.New(), Title: "Drinks", NumOfProducts: 2}}, nil).Once()

	c, rec := newContext(http.MethodGet, "/v1/categories?limit=5", "")
	require.NoError(t, h.ListCategories(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"num_of_products":2`)
	svc.AssertExpectations(t)
}

func TestDeleteCategory_InUse(t *testing.T) {
	svc := &MockCategoryService{}
	h := NewCategoryHandlers(svc, discardLogger)
	id := uuid.New()

	svc.On("Delete", mock.Anything, id).Return(services.ErrInUse).Once()

	c, rec := newContext(http.MethodDelete, "/v1/categories/"+id.String(), "", "id", id.String())
	require.NoError(t, h.DeleteCategory(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateCategory_BadTopProduct(t *testing.T) {
	h := NewCategoryHandlers(&MockCategoryService{}, discardLogger)

	c, rec := newContext(http.MethodPost, "/v1/categories", `{"title":"Drinks","top_product_id":"nope"}`)
	require.NoError(t, h.CreateCategory(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "top_product_id")
}

func TestListComments_ScopedToProduct(t *testing.T) {
	svc := &MockCommentService{}
	h := NewCommentHandlers(svc, discardLogger)
	productID := uuid.New()

	svc.On("ListByProduct", mock.Anything, productID, 50, 10).Return([]*models.Comment{{ID: uuid.New(), ProductID: productID, Name: "Ada"}}, nil).Once()

	c, rec := newContext(http.MethodGet, "/v1/products/"+productID.String()+"/comments?offset=10", "", "product_id", productID.String())
	require.NoError(t, h.ListComments(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada")
	svc.AssertExpectations(t)
}

func TestUpdateComment_PassesViewer(t *testing.T) {
	productID, id, userID := uuid.New(), uuid.New(), uuid.New()

	for _, staff := range []bool{false, true} {
		svc := &MockCommentService{}
		h := NewCommentHandlers(svc, discardLogger)
		viewer := services.Viewer{UserID: userID, IsStaff: staff}
		svc.On("Update", mock.Anything, viewer, mock.MatchedBy(func(cm *models.Comment) bool {
			return cm.ID == id && cm.ProductID == productID && cm.Status == models.CommentStatusApproved
		})).Return(nil).Once()

		c, rec := newContext(http.MethodPut, "/", `{"name":"Ada","body":"Nice","status":"approved"}`,
			"product_id", productID.String(), "id", id.String())
		require.NoError(t, h.UpdateComment(withViewer(c, userID, staff)))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	}
}

func TestUpdateComment_StatusRefusedForCustomer(t *testing.T) {
	svc := &MockCommentService{}
	h := NewCommentHandlers(svc, discardLogger)
	productID, id := uuid.New(), uuid.New()

	svc.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Return(&services.FieldError{Field: "status", Message: "only staff may change the status"}).Once()

	c, rec := newContext(http.MethodPut, "/", `{"status":"approved"}`, "product_id", productID.String(), "id", id.String())
	require.NoError(t, h.UpdateComment(withViewer(c, uuid.New(), false)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only staff may change the status")
}

func TestGetComment_NotFound(t *testing.T) {
	svc := &MockCommentService{}
	h := NewCommentHandlers(svc, discardLogger)
	productID, id := uuid.New(), uuid.New()

	svc.On("GetByID", mock.Anything, productID, id).Return(nil, errors.NotFoundf("comment %s", id)).Once()

	c, rec := newContext(http.MethodGet, "/", "", "product_id", productID.String(), "id", id.String())
	require.NoError(t, h.GetComment(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comment not found")
}
