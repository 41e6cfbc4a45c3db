package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Retry calls fn up to attempts times, sleeping delay between calls.
// A nil shouldRetry retries every error. Errors rejected by shouldRetry are returned unwrapped.
func Retry(ctx context.Context, attempts int, delay time.Duration, shouldRetry func(error) bool, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			slog.InfoContext(ctx, "Retrying request...", "attempt", i+1)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-timer.C:
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}
	}
	if attempts == 1 {
		return err
	}
	return fmt.Errorf("after %d attempts, last error: %w", attempts, err)
}
