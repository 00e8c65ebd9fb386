package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCustomerService(repo *MockCustomerRepository) *customerService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCustomerService(repo, logger).(*customerService)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestProvision_CreatesCustomer(t *testing.T) {
	repo := &MockCustomerRepository{}
	svc := newTestCustomerService(repo)
	user := IdentityUser{ID: uuid.New(), Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Customer) bool {
		return c.UserID == user.ID && c.Email == user.Email
	})).Return(true, nil).Once()

	customer, err := svc.Provision(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, user.ID, customer.UserID)
	assert.NotEqual(t, uuid.Nil, customer.ID)
	repo.AssertExpectations(t)
}

func TestProvision_Idempotent(t *testing.T) {
	repo := &MockCustomerRepository{}
	svc := newTestCustomerService(repo)
	user := IdentityUser{ID: uuid.New()}
	existing := &models.Customer{ID: uuid.New(), UserID: user.ID}

	repo.On("Create", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("GetByUserID", mock.Anything, user.ID).Return(existing, nil).Once()

	customer, err := svc.Provision(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, customer.ID)
	repo.AssertExpectations(t)
}

func TestProvision_RequiresUser(t *testing.T) {
	svc := newTestCustomerService(&MockCustomerRepository{})

	_, err := svc.Provision(context.Background(), IdentityUser{})

	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestMe_ProvisionsOnFirstUse(t *testing.T) {
	repo := &MockCustomerRepository{}
	svc := newTestCustomerService(repo)
	user := IdentityUser{ID: uuid.New(), Email: "grace@example.com"}

	repo.On("GetByUserID", mock.Anything, user.ID).Return(nil, errors.NotFoundf("customer")).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(true, nil).Once()

	customer, err := svc.Me(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", customer.Email)
	repo.AssertExpectations(t)
}

func TestUpdateMe_SetsProfileFields(t *testing.T) {
	repo := &MockCustomerRepository{}
	svc := newTestCustomerService(repo)
	user := IdentityUser{ID: uuid.New()}
	existing := &models.Customer{ID: uuid.New(), UserID: user.ID, FirstName: "Ada"}
	birth := time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)

	repo.On("GetByUserID", mock.Anything, user.ID).Return(existing, nil).Once()
	repo.On("Update", mock.Anything, existing).Return(nil).Once()

	customer, err := svc.UpdateMe(context.Background(), user, ProfileUpdate{PhoneNumber: " 555-0100 ", BirthDate: &birth})

	require.NoError(t, err)
	assert.Equal(t, "555-0100", customer.PhoneNumber)
	assert.Equal(t, &birth, customer.BirthDate)
	assert.Equal(t, "Ada", customer.FirstName)
	repo.AssertExpectations(t)
}

func TestUpdateMe_FutureBirthDate(t *testing.T) {
	svc := newTestCustomerService(&MockCustomerRepository{})
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.UpdateMe(context.Background(), IdentityUser{ID: uuid.New()}, ProfileUpdate{BirthDate: &future})

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "birth_date", fieldErr.Field)
}

func TestDeleteCustomer_WithOrders(t *testing.T) {
	repo := &MockCustomerRepository{}
	svc := newTestCustomerService(repo)
	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(ErrInUse).Once()

	err := svc.Delete(context.Background(), id)

	assert.True(t, errors.Is(err, ErrInUse))
}

func TestCommentCreate_DefaultsToWaiting(t *testing.T) {
	comments := &MockCommentRepository{}
	products := &MockProductRepository{}
	svc := NewCommentService(comments, products)
	productID := uuid.New()

	products.On("GetByID", mock.Anything, productID).Return(&models.Product{ID: productID}, nil).Once()
	comments.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	comment := &models.Comment{ProductID: productID, Name: "Ada", Body: "Lovely tea", Status: models.CommentStatusApproved}
	require.NoError(t, svc.Create(context.Background(), comment))

	assert.Equal(t, models.CommentStatusWaiting, comment.Status)
	comments.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestCommentCreate_UnknownProduct(t *testing.T) {
	comments := &MockCommentRepository{}
	products := &MockProductRepository{}
	svc := NewCommentService(comments, products)
	productID := uuid.New()

	products.On("GetByID", mock.Anything, productID).Return(nil, errors.NotFoundf("product")).Once()

	err := svc.Create(context.Background(), &models.Comment{ProductID: productID, Name: "Ada", Body: "Hi"})

	assert.True(t, errors.Is(err, errors.NotFound))
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentUpdate_StatusIsStaffOnly(t *testing.T) {
	comments := &MockCommentRepository{}
	svc := NewCommentService(comments, &MockProductRepository{})
	existing := &models.Comment{ID: uuid.New(), ProductID: uuid.New(), Status: models.CommentStatusWaiting}

	comments.On("GetByID", mock.Anything, existing.ProductID, existing.ID).Return(existing, nil)
	comments.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	update := &models.Comment{ID: existing.ID, ProductID: existing.ProductID, Name: "Ada", Body: "Edited", Status: models.CommentStatusApproved}
	err := svc.Update(context.Background(), Viewer{UserID: uuid.New()}, update)
	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "status", fieldErr.Field)

	err = svc.Update(context.Background(), Viewer{UserID: uuid.New(), IsStaff: true}, update)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusApproved, update.Status)
	comments.AssertExpectations(t)
}
