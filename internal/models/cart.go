package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	Items      []*CartItem     `json:"items" db:"-"`
	TotalPrice decimal.Decimal `json:"-" db:"-"`
}

// CartProduct is the slice of a product shown inside a cart line.
type CartProduct struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CartItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CartID    uuid.UUID       `json:"-" db:"cart_id"`
	ProductID uuid.UUID       `json:"-" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Product   CartProduct     `json:"product" db:"-"`
	ItemTotal decimal.Decimal `json:"-" db:"-"`
}

// ComputeTotals fills each line total and the cart total from current product prices.
func (c *Cart) ComputeTotals() {
	total := decimal.Zero
	for _, item := range c.Items {
		item.ItemTotal = item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.ItemTotal)
	}
	c.TotalPrice = total
}

func (c Cart) MarshalJSON() ([]byte, error) {
	type alias Cart
	items := c.Items
	if items == nil {
		items = []*CartItem{}
	}
	return json.Marshal(struct {
		alias
		Items      []*CartItem `json:"items"`
		TotalPrice string      `json:"total_price"`
	}{
		alias:      alias(c),
		Items:      items,
		TotalPrice: c.TotalPrice.StringFixed(2),
	})
}

func (p CartProduct) MarshalJSON() ([]byte, error) {
	type alias CartProduct
	return json.Marshal(struct {
		alias
		UnitPrice string `json:"unit_price"`
	}{alias(p), p.UnitPrice.StringFixed(2)})
}

func (i CartItem) MarshalJSON() ([]byte, error) {
	type alias CartItem
	return json.Marshal(struct {
		alias
		ItemTotal string `json:"item_total"`
	}{alias(i), i.ItemTotal.StringFixed(2)})
}
