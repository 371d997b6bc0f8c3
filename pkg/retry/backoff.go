package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Permanent wraps an error that must never be retried, matching
// backoff.Permanent semantics so Do's caller can distinguish a terminal
// precondition failure (spec §7: never retried) from an exhausted retry
// budget.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// ErrBudgetExhausted is returned by Do when every attempt failed and the
// retry budget (cfg.MaxRetries) has been exhausted.
var ErrBudgetExhausted = errors.New("retry: budget exhausted")

// Do runs fn up to cfg.MaxRetries+1 times, sleeping an exponentially growing,
// jittered delay between attempts. It stops early if fn returns a Permanent
// error, if ctx is cancelled, or once the budget is exhausted. The last
// non-permanent error is returned wrapped in ErrBudgetExhausted.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     cfg.InitialBackoff,
		RandomizationFactor: cfg.JitterFactor,
		Multiplier:          2,
		MaxInterval:         cfg.MaxBackoff,
		MaxElapsedTime:       0,
		Clock:                backoff.SystemClock,
	}
	b.Reset()

	bounded := backoff.WithMaxRetries(b, uint64(cfg.MaxRetries))
	withCtx := backoff.WithContext(bounded, ctx)

	var lastErr error

	err := backoff.Retry(func() error {
		lastErr = fn()
		return lastErr
	}, withCtx)

	if err == nil {
		return nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if lastErr != nil {
		return errors.Join(ErrBudgetExhausted, lastErr)
	}

	return ErrBudgetExhausted
}

// Sleep is exposed for callers (e.g. the bulk allocator) that want to honor
// the same jittered schedule without the full Do retry loop.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
