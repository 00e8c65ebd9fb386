package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DollarsToRials is the fixed conversion rate used for price_to_rial.
	DollarsToRials       = 500000
	MinProductNameLength = 6
)

var taxRate = decimal.RequireFromString("1.09")

// ProductSearchFilter holds search and filter criteria for product queries
type ProductSearchFilter struct {
	Query      string     `json:"query,omitempty"`       // Matches product name or category title
	CategoryID *uuid.UUID `json:"category_id,omitempty"` // Filter by category
	Inventory  *int       `json:"inventory,omitempty"`   // Exact inventory match
	SortBy     string     `json:"sort_by,omitempty"`     // name, unit_price, inventory
	SortOrder  string     `json:"sort_order,omitempty"`  // asc, desc
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}

type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CategoryID  uuid.UUID       `json:"category_id" db:"category_id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Inventory   int             `json:"inventory" db:"inventory"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// PriceAfterTax is the unit price with the flat 9% tax applied, rounded to cents.
func (p Product) PriceAfterTax() decimal.Decimal {
	return p.UnitPrice.Mul(taxRate).Round(2)
}

func (p Product) PriceToRial() int64 {
	return p.UnitPrice.Mul(decimal.NewFromInt(DollarsToRials)).IntPart()
}

func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		UnitPrice     string `json:"unit_price"`
		PriceAfterTax string `json:"price_after_tax"`
		PriceToRial   int64  `json:"price_to_rial"`
	}{
		alias:         alias(p),
		UnitPrice:     p.UnitPrice.StringFixed(2),
		PriceAfterTax: p.PriceAfterTax().StringFixed(2),
		PriceToRial:   p.PriceToRial(),
	})
}
