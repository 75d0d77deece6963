package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a minimum time between successive calls. The equities source
// uses one to pace its per-symbol request loop inside a provider's per-minute
// quota. Concurrent callers wait until the interval has elapsed since the last
// call, or return early if the context is canceled.
type Gate struct {
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (g *Gate) Wait(ctx context.Context) error {
	if g.Interval <= 0 {
		return nil
	}
	g.mu.Lock()
	wait := time.Until(g.last.Add(g.Interval))
	g.mu.Unlock()
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	g.mu.Lock()
	g.last = time.Now()
	g.mu.Unlock()
	return nil
}
