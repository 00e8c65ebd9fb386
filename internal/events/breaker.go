package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes the circuit breaker placed in front of an external
// subscriber.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial delivery.
	OpenTimeout time.Duration
}

var DefaultBreakerSettings = BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}

type breakerSubscriber struct {
	cb  *gobreaker.CircuitBreaker
	sub Subscriber
}

// WithBreaker stops calling sub while its backend keeps failing. Deliveries
// rejected by an open breaker fail with gobreaker.ErrOpenState.
func WithBreaker(name string, sub Subscriber, settings BreakerSettings, logger *slog.Logger) Subscriber {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = DefaultBreakerSettings.ConsecutiveFailures
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("subscriber circuit state changed", "subscriber", name, "from", from.String(), "to", to.String())
		},
	})
	return &breakerSubscriber{cb: cb, sub: sub}
}

func (b *breakerSubscriber) Handle(ctx context.Context, ev Event) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.sub.Handle(ctx, ev)
	})
	return err
}
