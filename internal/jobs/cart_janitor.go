package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
)

// CartSweeper deletes carts created before cutoff and reports how many went.
type CartSweeper interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartJanitor removes abandoned carts. Carts are transient working state, so
// anything older than the TTL is dropped together with its items.
type CartJanitor struct {
	carts  CartSweeper
	clock  clock.Clock
	ttl    time.Duration
	logger *slog.Logger

	// OnSwept, when set, receives the number of carts removed by each sweep.
	OnSwept func(n int64)
}

func NewCartJanitor(carts CartSweeper, clk clock.Clock, ttl time.Duration, logger *slog.Logger) *CartJanitor {
	if clk == nil {
		clk = clock.WallClock
	}
	return &CartJanitor{carts: carts, clock: clk, ttl: ttl, logger: logger}
}

func (j *CartJanitor) Sweep(ctx context.Context) error {
	if j.ttl <= 0 {
		return errors.NotValidf("cart ttl %s", j.ttl)
	}
	cutoff := j.clock.Now().Add(-j.ttl)
	n, err := j.carts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "cart sweep failed", "cutoff", cutoff, "error", err)
		return errors.Annotate(err, "sweep carts")
	}
	j.logger.InfoContext(ctx, "cart sweep completed", "deleted", n, "cutoff", cutoff)
	if j.OnSwept != nil {
		j.OnSwept(n)
	}
	return nil
}
