package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/sourcegraph/conc/panics"
)

// Subscriber reacts to a published event. Returned errors are logged by the
// bus and never reach the publisher.
type Subscriber interface {
	Handle(ctx context.Context, ev Event) error
}

type SubscriberFunc func(ctx context.Context, ev Event) error

func (f SubscriberFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// DeliveryError records a failed hand-off of one event to one subscriber.
type DeliveryError struct {
	Subscriber string
	EventName  string
	EventID    string
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s %s to %s: %v", e.EventName, e.EventID, e.Subscriber, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type subscription struct {
	name string
	sub  Subscriber
}

// Bus fans events out to subscribers asynchronously. Each subscriber runs in
// its own goroutine with a bounded, detached context.
type Bus struct {
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	subs   []subscription
	closed bool
	wg     sync.WaitGroup

	// OnError, when set, is called for every failed delivery after it is logged.
	OnError func(*DeliveryError)
}

func NewBus(logger *slog.Logger, timeout time.Duration) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Bus{logger: logger, timeout: timeout}
}

func (b *Bus) Subscribe(name string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{name: name, sub: sub})
}

// Publish returns immediately. Events published after Close are dropped.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("event bus closed, dropping event", "event", ev.Name, "event_id", ev.ID)
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, s := range b.subs {
		b.wg.Add(1)
		go b.deliver(detached, s, ev)
	}
}

func (b *Bus) deliver(ctx context.Context, s subscription, ev Event) {
	defer b.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var (
		err error
		pc  panics.Catcher
	)
	pc.Try(func() { err = s.sub.Handle(ctx, ev) })
	if r := pc.Recovered(); r != nil {
		err = errors.Errorf("subscriber panicked: %v", r.Value)
	}
	if err == nil {
		return
	}

	derr := &DeliveryError{
		Subscriber: s.name,
		EventName:  ev.Name,
		EventID:    ev.ID.String(),
		Err:        err,
	}
	b.logger.Error("event delivery failed",
		"subscriber", s.name,
		"event", ev.Name,
		"event_id", ev.ID,
		"order_id", ev.OrderID,
		"error", err,
	)
	if b.OnError != nil {
		b.OnError(derr)
	}
}

// Close stops accepting events and waits for in-flight deliveries or ctx.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Annotate(ctx.Err(), "waiting for event deliveries")
	}
}
