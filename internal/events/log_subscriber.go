package events

import (
	"context"
	"log/slog"
)

// NewLogSubscriber records every event at info level.
func NewLogSubscriber(logger *slog.Logger) Subscriber {
	return SubscriberFunc(func(ctx context.Context, ev Event) error {
		attrs := []any{"event", ev.Name, "event_id", ev.ID, "order_id", ev.OrderID}
		if ev.Order != nil {
			attrs = append(attrs, "customer_id", ev.Order.CustomerID, "items", len(ev.Order.Items))
		}
		logger.InfoContext(ctx, "order created", attrs...)
		return nil
	})
}
