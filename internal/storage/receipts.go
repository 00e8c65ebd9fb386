package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/events"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// ReceiptURLExpiry bounds presigned receipt links.
const ReceiptURLExpiry = 15 * time.Minute

func ReceiptObjectName(orderID uuid.UUID) string {
	return fmt.Sprintf("orders/%s.json", orderID)
}

type ReceiptArchiver struct {
	store ObjectStore
}

func NewReceiptArchiver(store ObjectStore) *ReceiptArchiver {
	return &ReceiptArchiver{store: store}
}

// Handle stores the committed order snapshot as the order's receipt.
func (a *ReceiptArchiver) Handle(ctx context.Context, ev events.Event) error {
	if ev.Name != events.OrderCreated || ev.Order == nil {
		return nil
	}
	body, err := json.Marshal(ev.Order)
	if err != nil {
		return errors.Annotate(err, "marshal receipt")
	}
	return a.store.PutJSON(ctx, ReceiptObjectName(ev.OrderID), body)
}

// URL returns a short-lived download link for an order's receipt.
func (a *ReceiptArchiver) URL(ctx context.Context, orderID uuid.UUID) (string, error) {
	return a.store.PresignedURL(ctx, ReceiptObjectName(orderID), ReceiptURLExpiry)
}
