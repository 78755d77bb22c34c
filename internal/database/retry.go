package database

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy configures exponential backoff for Retry.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy waits roughly 15s in total before giving up.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  6,
	BaseDelay: 500 * time.Millisecond,
	MaxDelay:  5 * time.Second,
}

// Retry calls fn until it succeeds, the attempts are exhausted or ctx is
// done. The delay doubles after each failure and is capped at MaxDelay.
// Nothing on the request path uses it; it is for callers such as the
// seeder that wait for the database to come up.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
		}

		delay *= 2
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
