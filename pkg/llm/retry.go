package llm

import (
	"context"
	"time"

	"github.com/Aashka19/CodeEcho/internal/logging"
)

// Retry defaults
const (
	DefaultAttempts  = 3
	DefaultBaseDelay = time.Second
)

// Retrier runs an operation up to Attempts times, waiting attempt*BaseDelay
// between tries. There is no jitter and no wait after the last attempt.
type Retrier struct {
	Attempts  int
	BaseDelay time.Duration

	// sleep is swapped in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a retrier, falling back to 3 attempts and 1s
func NewRetrier(attempts int, baseDelay time.Duration) *Retrier {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if baseDelay < 0 {
		baseDelay = DefaultBaseDelay
	}
	return &Retrier{Attempts: attempts, BaseDelay: baseDelay, sleep: sleepCtx}
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. In the last case an *ExhaustedError wrapping the
// final cause is returned.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return err
		}
		lastErr = err

		if attempt < r.Attempts {
			delay := time.Duration(attempt) * r.BaseDelay
			logging.Warn("analysis attempt failed, retrying", "attempt", attempt, "delay", delay, "err", err)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}
	}
	return &ExhaustedError{Attempts: r.Attempts, Last: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
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
