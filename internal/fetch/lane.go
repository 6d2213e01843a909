package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Lane serializes requests for one phase of the crawl. Within a lane at most
// one request is in flight and consecutive dispatches are spaced at least
// `delay` apart; separate lanes run independently, letting the listing and
// album phases pipeline against each other.
type Lane struct {
	name    string
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewLane builds a lane with the given minimum spacing between dispatches.
// A zero or negative delay disables spacing but keeps the serialization.
func NewLane(name string, delay time.Duration) *Lane {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Lane{
		name:    name,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Name identifies the lane in logs.
func (l *Lane) Name() string { return l.name }

// Do runs fn under the lane's serialization and spacing guarantees. It
// returns the context error if the wait was interrupted before dispatch.
func (l *Lane) Do(ctx context.Context, fn func(context.Context)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}
	fn(ctx)
	return nil
}
