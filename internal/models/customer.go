package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the store-side record for an identity provider user.
type Customer struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Email       string     `json:"email" db:"email"`
	PhoneNumber string     `json:"phone_number" db:"phone_number"`
	BirthDate   *time.Time `json:"birth_date" db:"birth_date"`
}

// CustomerSummary is embedded in staff order listings.
type CustomerSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

func (c *Customer) Summary() *CustomerSummary {
	return &CustomerSummary{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
}
