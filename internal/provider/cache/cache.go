// Package cache holds a fetched provider payload for a TTL. The metals
// provider's free quota (25 calls per month) makes refetching every cycle
// impossible, so its live source caches the raw USD price map and rebuilds
// quotes from it on each cycle.
package cache

import (
	"context"
	"sync"
	"time"
)

// Loader fetches the raw payload from the provider.
type Loader func(ctx context.Context) (map[string]float64, error)

// Payload caches a provider's raw price map for a TTL. On a failed reload a
// previously cached payload is served stale rather than failing the caller.
type Payload struct {
	TTL  time.Duration
	Load Loader

	mu        sync.Mutex
	value     map[string]float64
	expiresAt time.Time
}

// Get returns the cached payload, reloading it when expired or absent.
func (p *Payload) Get(ctx context.Context) (map[string]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.value != nil && now.Before(p.expiresAt) {
		return p.value, nil
	}

	fresh, err := p.Load(ctx)
	if err != nil {
		if p.value != nil {
			// Stale beats synthetic for slow-moving prices.
			return p.value, nil
		}
		return nil, err
	}
	p.value = fresh
	p.expiresAt = now.Add(p.TTL)
	return fresh, nil
}
