// Package retry runs idempotent operations with bounded attempts and linear backoff.
package retry

import (
	"context"
	"time"
)

// Policy bounds a retry loop. Attempts counts the first call.
type Policy struct {
	Attempts int
	Delay    time.Duration
	// Retryable decides whether an error may be retried. Nil retries nothing.
	Retryable func(error) bool
	// BeforeRetry runs before every attempt after the first. Returning done=true stops the
	// loop with err as the final result.
	BeforeRetry func(ctx context.Context, attempt int) (done bool, err error)
}

// Do calls fn until it succeeds, returns a non-retryable error, or attempts run out.
// The wait before attempt n is Delay*(n-1).
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if werr := wait(ctx, p.Delay*time.Duration(attempt-1)); werr != nil {
				return err
			}
			if p.BeforeRetry != nil {
				done, berr := p.BeforeRetry(ctx, attempt)
				if done {
					return berr
				}
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
	}
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
