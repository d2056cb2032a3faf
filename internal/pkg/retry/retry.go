// Package retry wraps read-only store operations with bounded
// exponential-backoff retries. Mutating operations must not be wrapped:
// they carry no idempotency keys, so a retried write could apply twice.
package retry

import (
	"context"
	"time"
)

const maxRetries = 3

var baseDelay = 100 * time.Millisecond

// Do runs op, retrying up to 3 times on error with delays of 100ms, 200ms
// and 400ms. The last error is returned once attempts are exhausted.
// Sleeps are context-aware so a cancelled request does not keep retrying.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	var err error

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		result, err = op(ctx)
		if err == nil || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
