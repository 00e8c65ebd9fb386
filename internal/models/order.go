package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusUnpaid   = "unpaid"
	OrderStatusPaid     = "paid"
	OrderStatusCanceled = "canceled"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusUnpaid, OrderStatusPaid, OrderStatusCanceled:
		return true
	}
	return false
}

type Order struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	CustomerID uuid.UUID        `json:"customer_id" db:"customer_id"`
	Status     string           `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	Items      []*OrderItem     `json:"items" db:"-"`
	Customer   *CustomerSummary `json:"customer,omitempty" db:"-"`
}

// OrderItemProduct is the product as it appears inside an order line.
type OrderItemProduct struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderItem holds the quantity and the unit price captured when the order was placed.
type OrderItem struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	OrderID   uuid.UUID        `json:"-" db:"order_id"`
	ProductID uuid.UUID        `json:"-" db:"product_id"`
	Quantity  int              `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price" db:"unit_price"`
	Product   OrderItemProduct `json:"product" db:"-"`
}

// OrderSearchFilter scopes order listings. A nil CustomerID lists every order.
type OrderSearchFilter struct {
	CustomerID *uuid.UUID
	Status     string
	Limit      int
	Offset     int
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	items := o.Items
	if items == nil {
		items = []*OrderItem{}
	}
	return json.Marshal(struct {
		alias
		Items []*OrderItem `json:"items"`
	}{alias(o), items})
}

func (p OrderItemProduct) MarshalJSON() ([]byte, error) {
	type alias OrderItemProduct
	return json.Marshal(struct {
		alias
		UnitPrice string `json:"unit_price"`
	}{alias(p), p.UnitPrice.StringFixed(2)})
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type alias OrderItem
	return json.Marshal(struct {
		alias
		UnitPrice string `json:"unit_price"`
	}{alias(i), i.UnitPrice.StringFixed(2)})
}
