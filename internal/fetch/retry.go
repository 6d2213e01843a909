package fetch

import (
	"context"
	"time"
)

// Backoff base delays, one per failure class. A 429 backs off much harder
// than a transient server error.
const (
	RateLimitBackoffBase   = 4 * time.Second
	ServerErrorBackoffBase = 1500 * time.Millisecond
)

// RetryPolicy controls how a failed request is retried. NextDelay is a pure
// function of the attempt number so it can be tested independently of any
// transport.
type RetryPolicy struct {
	Retries         int
	RateLimitBase   time.Duration
	ServerErrorBase time.Duration
}

// DefaultRetryPolicy builds a policy with the standard backoff bases.
func DefaultRetryPolicy(retries int) RetryPolicy {
	return RetryPolicy{
		Retries:         retries,
		RateLimitBase:   RateLimitBackoffBase,
		ServerErrorBase: ServerErrorBackoffBase,
	}
}

// NextDelay returns base * 2^(attempt-1) for attempt >= 1.
func (p RetryPolicy) NextDelay(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		return 0
	}
	return base << (attempt - 1)
}

// pause sleeps for delay or until the context is done, whichever comes first.
func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
