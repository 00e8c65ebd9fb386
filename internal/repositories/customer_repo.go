package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type CustomerRepository interface {
	// Create inserts the customer unless one already exists for the user.
	// It reports whether a row was written.
	Create(ctx context.Context, customer *models.Customer) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
}

type customerRepo struct {
	db DBTX
}

func NewCustomerRepo(db DBTX) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, user_id, first_name, last_name, email, phone_number, birth_date`

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) (bool, error) {
	query := `
		INSERT INTO customers (id, user_id, first_name, last_name, email, phone_number, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, customer.ID, customer.UserID, customer.FirstName, customer.LastName, customer.Email, customer.PhoneNumber, customer.BirthDate)
	if err != nil {
		return false, errors.Annotate(err, "insert customer")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

func (r *customerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE user_id = $1`, userID)
}

func (r *customerRepo) getOne(ctx context.Context, query string, key uuid.UUID) (*models.Customer, error) {
	customer := &models.Customer{}
	err := r.db.QueryRow(ctx, query, key).Scan(&customer.ID, &customer.UserID, &customer.FirstName, &customer.LastName, &customer.Email, &customer.PhoneNumber, &customer.BirthDate)
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFoundf("customer %s", key)
		}
		return nil, errors.Annotate(err, "select customer")
	}
	return customer, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4, birth_date = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query, customer.FirstName, customer.LastName, customer.Email, customer.PhoneNumber, customer.BirthDate, customer.ID)
	if err != nil {
		return errors.Annotate(err, "update customer")
	}
	return requireAffected(tag, "customer", customer.ID)
}

// Delete removes a customer. Customers with orders are protected.
func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrInUse
		}
		return errors.Annotate(err, "delete customer")
	}
	return requireAffected(tag, "customer", id)
}

func (r *customerRepo) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY last_name, first_name, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.Annotate(err, "select customers")
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer := &models.Customer{}
		if err := rows.Scan(&customer.ID, &customer.UserID, &customer.FirstName, &customer.LastName, &customer.Email, &customer.PhoneNumber, &customer.BirthDate); err != nil {
			return nil, errors.Annotate(err, "scan customer")
		}
		customers = append(customers, customer)
	}
	return customers, errors.Annotate(rows.Err(), "iterate customers")
}
