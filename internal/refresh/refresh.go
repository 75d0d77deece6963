// Package refresh drives the periodic fetch cycle: acquire the exchange
// rate, fan out to every provider source, merge, and publish one snapshot
// into the store.
//
// The orchestrator moves through three phases. Idle before Run; Refreshing
// while a cycle is in flight; CountingDown between cycles while the
// one-second tick drains the countdown. Both the tick and the cycle run on
// the same goroutine, so the countdown can never be decremented while a
// finishing cycle resets it.
package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"markethub/internal/asset"
	"markethub/internal/provider"
	"markethub/internal/provider/frankfurter"
	"markethub/internal/store"
)

// RateSource provides the USD to EUR rate gating every cycle.
//
//go:generate mockgen -package=refresh_test -destination=mock_sources_test.go -source=refresh.go RateSource
type RateSource interface {
	ExchangeRate(ctx context.Context) (float64, error)
}

type Orchestrator struct {
	store   *store.Store
	rates   RateSource
	sources []provider.Source

	// interval is the countdown reset value in seconds.
	interval int
	// timeout bounds one whole cycle.
	timeout time.Duration
	log     *zap.Logger

	refreshing atomic.Bool
	manual     chan struct{}
}

func New(st *store.Store, rates RateSource, sources []provider.Source, intervalSec int, cycleTimeout time.Duration, log *zap.Logger) *Orchestrator {
	if intervalSec <= 0 {
		intervalSec = 60
	}
	if cycleTimeout <= 0 {
		cycleTimeout = 45 * time.Second
	}
	return &Orchestrator{
		store:    st,
		rates:    rates,
		sources:  sources,
		interval: intervalSec,
		timeout:  cycleTimeout,
		log:      log,
		manual:   make(chan struct{}, 1),
	}
}

// RequestRefresh asks for an out-of-cycle refresh. A cycle already in flight
// absorbs the request; refreshes are never queued or canceled.
func (o *Orchestrator) RequestRefresh() {
	if o.refreshing.Load() {
		return
	}
	select {
	case o.manual <- struct{}{}:
	default:
	}
}

// Refreshing reports whether a cycle is currently in flight.
func (o *Orchestrator) Refreshing() bool { return o.refreshing.Load() }

// Run performs the initial load, then alternates between counting down and
// refreshing until ctx is canceled. It owns all countdown writes.
func (o *Orchestrator) Run(ctx context.Context) {
	o.RunCycle(ctx)

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.manual:
			o.RunCycle(ctx)
		case <-tick.C:
			remaining := o.store.State().Countdown - 1
			if remaining <= 0 {
				o.RunCycle(ctx)
				continue
			}
			o.store.SetCountdown(remaining)
		}
	}
}

// RunCycle executes one complete refresh. It is re-entrancy guarded: a second
// concurrent call returns immediately. Every cycle completes; provider
// failures degrade to synthetic or failed records, never to an aborted cycle.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	if !o.refreshing.CompareAndSwap(false, true) {
		return
	}
	defer o.refreshing.Store(false)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	o.store.SetLoading(true)
	defer o.store.SetLoading(false)

	// The exchange rate gates the fan-out: every conversion in this cycle
	// depends on it. On failure the cycle proceeds with the fallback rate.
	rate, err := o.rates.ExchangeRate(ctx)
	if err != nil {
		o.log.Warn("exchange rate fetch failed, using fallback",
			zap.Float64("fallback", frankfurter.FallbackRate), zap.Error(err))
		rate = frankfurter.FallbackRate
	}
	currency := o.store.State().Currency

	results := make(map[asset.Class][]asset.Quote, len(o.sources))
	errors := make(map[asset.Class]bool, len(o.sources))
	var mu sync.Mutex
	var g errgroup.Group
	for _, src := range o.sources {
		g.Go(func() error {
			quotes, err := src.Fetch(ctx, rate, currency)
			if err != nil {
				// Sources wrap their own fallbacks; an error here means even
				// the fallback path was unavailable.
				o.log.Error("source fetch failed",
					zap.String("class", string(src.Class())), zap.Error(err))
			}
			mu.Lock()
			results[src.Class()] = quotes
			errors[src.Class()] = err != nil || anyFailed(quotes)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	MergeBitcoin(results[asset.Crypto], results[asset.Forex])

	o.store.SetSnapshot(asset.Snapshot{
		Data:         results,
		ExchangeRate: rate,
		LastUpdate:   time.Now(),
	}, errors)
	o.store.SetCountdown(o.interval)

	o.log.Info("refresh cycle complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("exchange_rate", rate),
		zap.String("currency", currency))
}

func anyFailed(quotes []asset.Quote) bool {
	for _, q := range quotes {
		if q.Failed && (q.Pair == nil || !q.Pair.CryptoPair) {
			return true
		}
	}
	return false
}

// MergeBitcoin copies the crypto source's Bitcoin quote into the forex
// crypto-linked pair. The forex provider cannot price crypto, so exactly one
// pair is cross-referenced this way.
func MergeBitcoin(crypto, forex []asset.Quote) {
	var btc *asset.Quote
	for i := range crypto {
		if crypto[i].Symbol == "BTC" {
			btc = &crypto[i]
			break
		}
	}
	if btc == nil || !btc.Loaded {
		return
	}
	for i := range forex {
		if forex[i].Pair != nil && forex[i].Pair.CryptoPair {
			forex[i].Price = btc.PriceUSD
			forex[i].PriceUSD = btc.PriceUSD
			forex[i].Change24h = btc.Change24h
			forex[i].Loaded = true
			forex[i].Simulated = btc.Simulated
			forex[i].Failed = false
			return
		}
	}
}
