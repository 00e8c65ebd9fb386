package events

import (
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

const OrderCreated = "order_created"

// Event is a domain event handed to bus subscribers after the change it
// describes has been committed.
type Event struct {
	ID         uuid.UUID
	Name       string
	OccurredAt time.Time
	OrderID    uuid.UUID
	// Order is the committed order snapshot. Subscribers must treat it as read-only.
	Order *models.Order
}

func NewOrderCreated(order *models.Order) Event {
	return Event{
		ID:         uuid.New(),
		Name:       OrderCreated,
		OccurredAt: time.Now().UTC(),
		OrderID:    order.ID,
		Order:      order,
	}
}

// EventEnvelope is the wire format used for events leaving the process.
type EventEnvelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Schema       string    `json:"schema"`
	Payload      T         `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    string             `json:"orderId"`
	CustomerID string             `json:"customerId"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	Items      []OrderCreatedItem `json:"items"`
}

type OrderCreatedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

const (
	producerName       = "storefront"
	orderCreatedSchema = "order.created.v1"
)

func orderCreatedEnvelope(ev Event) EventEnvelope[OrderCreatedPayload] {
	payload := OrderCreatedPayload{OrderID: ev.OrderID.String(), Items: []OrderCreatedItem{}}
	if o := ev.Order; o != nil {
		payload.CustomerID = o.CustomerID.String()
		payload.Status = o.Status
		payload.CreatedAt = o.CreatedAt
		for _, it := range o.Items {
			payload.Items = append(payload.Items, OrderCreatedItem{
				ProductID: it.ProductID.String(),
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice.StringFixed(2),
			})
		}
	}

	return EventEnvelope[OrderCreatedPayload]{
		EventName:    "order.created",
		EventVersion: 1,
		EventID:      ev.ID.String(),
		Producer:     producerName,
		PartitionKey: ev.OrderID.String(),
		OccurredAt:   ev.OccurredAt,
		Schema:       orderCreatedSchema,
		Payload:      payload,
	}
}
