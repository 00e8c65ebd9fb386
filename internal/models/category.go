package models

import (
	"github.com/google/uuid"
)

type Category struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	TopProductID  *uuid.UUID `json:"top_product_id" db:"top_product_id"`
	NumOfProducts int        `json:"num_of_products" db:"-"`
}
