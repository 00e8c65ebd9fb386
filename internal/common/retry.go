package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
)

// RetryPolicy bounds how long startup waits for a backing service.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
	Clock    clock.Clock
}

// DefaultRetryPolicy gives a backend roughly half a minute to come up.
var DefaultRetryPolicy = RetryPolicy{Attempts: 6, Delay: time.Second, MaxDelay: 10 * time.Second}

// Retry calls fn until it succeeds, the attempts run out or ctx is done. The
// delay doubles after every failed attempt.
func Retry(ctx context.Context, logger *slog.Logger, name string, policy RetryPolicy, fn func(ctx context.Context) error) error {
	clk := policy.Clock
	if clk == nil {
		clk = clock.WallClock
	}

	var lastErr error
	err := retry.Call(retry.CallArgs{
		Func: func() error { return fn(ctx) },
		NotifyFunc: func(err error, attempt int) {
			lastErr = err
			logger.WarnContext(ctx, "backend not ready, retrying", "backend", name, "attempt", attempt, "error", err)
		},
		Attempts:    policy.Attempts,
		Delay:       policy.Delay,
		MaxDelay:    policy.MaxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       clk,
		Stop:        ctx.Done(),
	})
	if retry.IsAttemptsExceeded(err) {
		return errors.Annotatef(lastErr, "%s unavailable after %d attempts", name, policy.Attempts)
	}
	return errors.Annotatef(err, "connect %s", name)
}
