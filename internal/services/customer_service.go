package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// IdentityUser is a user as asserted by the identity provider, either through
// token claims or the user.created webhook.
type IdentityUser struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
}

// ProfileUpdate holds the fields a customer may change on their own record.
type ProfileUpdate struct {
	PhoneNumber string
	BirthDate   *time.Time
}

type CustomerService interface {
	// Provision creates the customer for a new identity user. Repeated calls
	// for the same user are no-ops returning the existing record.
	Provision(ctx context.Context, user IdentityUser) (*models.Customer, error)
	// Me returns the caller's customer record, provisioning it on first use.
	Me(ctx context.Context, user IdentityUser) (*models.Customer, error)
	UpdateMe(ctx context.Context, user IdentityUser, update ProfileUpdate) (*models.Customer, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	logger       *slog.Logger
	now          func() time.Time
}

func NewCustomerService(customerRepo repositories.CustomerRepository, logger *slog.Logger) CustomerService {
	return &customerService{customerRepo: customerRepo, logger: logger, now: time.Now}
}

func (s *customerService) Provision(ctx context.Context, user IdentityUser) (*models.Customer, error) {
	if user.ID == uuid.Nil {
		return nil, invalidField("user_id", "this field is required")
	}
	customer := &models.Customer{
		ID:        uuid.New(),
		UserID:    user.ID,
		FirstName: strings.TrimSpace(user.FirstName),
		LastName:  strings.TrimSpace(user.LastName),
		Email:     strings.TrimSpace(user.Email),
	}
	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		return nil, err
	}
	if !created {
		return s.customerRepo.GetByUserID(ctx, user.ID)
	}
	s.logger.InfoContext(ctx, "customer provisioned", "customer_id", customer.ID, "user_id", user.ID)
	return customer, nil
}

func (s *customerService) Me(ctx context.Context, user IdentityUser) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, user.ID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, errors.NotFound) {
		return nil, err
	}
	return s.Provision(ctx, user)
}

func (s *customerService) UpdateMe(ctx context.Context, user IdentityUser, update ProfileUpdate) (*models.Customer, error) {
	if err := s.validateProfile(update.PhoneNumber, update.BirthDate); err != nil {
		return nil, err
	}
	customer, err := s.Me(ctx, user)
	if err != nil {
		return nil, err
	}
	customer.PhoneNumber = strings.TrimSpace(update.PhoneNumber)
	customer.BirthDate = update.BirthDate
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, customer *models.Customer) error {
	if err := s.validateProfile(customer.PhoneNumber, customer.BirthDate); err != nil {
		return err
	}
	existing, err := s.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		return err
	}
	customer.UserID = existing.UserID
	return s.customerRepo.Update(ctx, customer)
}

// Delete refuses with ErrInUse while the customer has orders.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}

func (s *customerService) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx, limit, offset)
}

func (s *customerService) validateProfile(phone string, birthDate *time.Time) error {
	if len(phone) > maxNameLength {
		return invalidField("phone_number", "ensure this field has no more than 255 characters")
	}
	if birthDate != nil && birthDate.After(s.now()) {
		return invalidField("birth_date", "cannot be in the future")
	}
	return nil
}
