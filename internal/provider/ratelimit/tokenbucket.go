package ratelimit

import (
	"context"
	"sync"
	"time"

	"markethub/internal/asset"
	"markethub/internal/provider"
)

// TokenBucket is a stdlib-only token bucket limiter.
// - rate: tokens per second
// - capacity: maximum tokens the bucket can hold (burst)
type TokenBucket struct {
	rate     float64
	capacity float64

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// PerMinute builds a bucket for a provider's calls-per-minute quota.
func PerMinute(callsPerMinute, burst int) *TokenBucket {
	return NewTokenBucket(float64(callsPerMinute)/60.0, burst)
}

func NewTokenBucket(tokensPerSecond float64, burst int) *TokenBucket {
	if tokensPerSecond <= 0 {
		tokensPerSecond = 0.0000001
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		rate:     tokensPerSecond,
		capacity: float64(burst),
		tokens:   float64(burst), // start full to allow an initial burst
		last:     time.Now(),
	}
}

// Wait blocks until one token is available or the context is canceled.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		tb.mu.Lock()
		now := time.Now()
		elapsed := now.Sub(tb.last).Seconds()
		if elapsed > 0 {
			tb.tokens += elapsed * tb.rate
			if tb.tokens > tb.capacity {
				tb.tokens = tb.capacity
			}
			tb.last = now
		}
		if tb.tokens >= 1 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}
		deficit := 1 - tb.tokens
		tb.mu.Unlock()
		waitDur := time.Duration(deficit / tb.rate * float64(time.Second))
		if waitDur <= 0 {
			waitDur = time.Millisecond
		}
		timer := time.NewTimer(waitDur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// LimitedSource wraps a Source and gates fetches with a token bucket. Sources
// sharing one provider quota (stocks and ETFs) share one bucket.
type LimitedSource struct {
	S  provider.Source
	TB *TokenBucket
}

func (l *LimitedSource) Class() asset.Class { return l.S.Class() }

func (l *LimitedSource) Fetch(ctx context.Context, exchangeRate float64, currency string) ([]asset.Quote, error) {
	if l.TB != nil {
		if err := l.TB.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return l.S.Fetch(ctx, exchangeRate, currency)
}
