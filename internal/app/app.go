// Package app wires configuration into the provider source set shared by the
// server and the one-shot fetch command.
package app

import (
	"time"

	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/config"
	"markethub/internal/httpx"
	"markethub/internal/provider"
	"markethub/internal/provider/coingecko"
	"markethub/internal/provider/finnhub"
	"markethub/internal/provider/frankfurter"
	"markethub/internal/provider/metalsdev"
	"markethub/internal/provider/ratelimit"
	"markethub/internal/provider/synthetic"
)

// BuildSources assembles one source per asset class, each wrapped with its
// fallback and rate limiting, plus the forex source that doubles as the
// exchange-rate source for the refresh cycle.
func BuildSources(cfg *config.Config, log *zap.Logger) ([]provider.Source, *frankfurter.Source) {
	client := httpx.New(time.Duration(cfg.Refresh.RequestTimeoutSec) * time.Second)

	// Rate limiters sit inside the fallbacks so that a limiter wait cut short
	// by the cycle deadline degrades the class the same way a provider outage
	// does, instead of leaking an error past the fallback.

	// Crypto: batched, no key needed. No plausible synthetic prices exist for
	// crypto, so total failure degrades to failed records.
	var cryptoLive provider.Source = coingecko.New(coingecko.Config{BaseURL: cfg.Providers.CoinGecko.BaseURL}, client, log)
	if rpm := cfg.Providers.CoinGecko.MaxRequestsPerMinute; rpm > 0 {
		cryptoLive = &ratelimit.LimitedSource{S: cryptoLive, TB: ratelimit.PerMinute(rpm, 1)}
	}
	crypto := &provider.Fallback{
		Live:      cryptoLive,
		Synthetic: &synthetic.Failed{Cls: asset.Crypto, Defs: asset.Coins},
		Log:       log,
	}

	// Stocks and ETFs share one provider quota: one pacing gate and one
	// token bucket across both sources.
	gate := &ratelimit.Gate{Interval: time.Duration(cfg.Providers.Finnhub.InterRequestDelayMs) * time.Millisecond}
	var bucket *ratelimit.TokenBucket
	if rpm := cfg.Providers.Finnhub.MaxRequestsPerMinute; rpm > 0 {
		bucket = ratelimit.PerMinute(rpm, 1)
	}
	var stocksLive provider.Source = finnhub.New(finnhub.Config{
		BaseURL:     cfg.Providers.Finnhub.BaseURL,
		APIKey:      cfg.Providers.Finnhub.APIKey,
		Cls:         asset.Stocks,
		Defs:        asset.StockList,
		ChangeNoise: 2,
	}, client, gate, log)
	var etfsLive provider.Source = finnhub.New(finnhub.Config{
		BaseURL:     cfg.Providers.Finnhub.BaseURL,
		APIKey:      cfg.Providers.Finnhub.APIKey,
		Cls:         asset.ETFs,
		Defs:        asset.ETFList,
		ChangeNoise: 1.5,
	}, client, gate, log)
	if bucket != nil {
		stocksLive = &ratelimit.LimitedSource{S: stocksLive, TB: bucket}
		etfsLive = &ratelimit.LimitedSource{S: etfsLive, TB: bucket}
	}
	stocks := &provider.Fallback{
		Live: stocksLive,
		Synthetic: &synthetic.Source{
			Cls: asset.Stocks, Defs: asset.StockList,
			PriceNoise: 0.01, ChangeNoise: 2,
		},
		Log: log,
	}
	etfs := &provider.Fallback{
		Live: etfsLive,
		Synthetic: &synthetic.Source{
			Cls: asset.ETFs, Defs: asset.ETFList,
			PriceNoise: 0.01, ChangeNoise: 1.5,
		},
		Log: log,
	}

	fx := frankfurter.New(frankfurter.Config{BaseURL: cfg.Providers.Frankfurter.BaseURL}, client, log)
	forex := &provider.Fallback{
		Live: fx,
		Synthetic: &synthetic.Source{
			Cls: asset.Forex, Defs: asset.ForexList,
			PriceNoise: 0.005, ChangeNoise: 0.75,
		},
		Log: log,
	}

	// Metals: live only when a key is configured; a nil Live routes straight
	// to the synthetic source without a network call.
	metalsFallback := &provider.Fallback{
		Synthetic: &synthetic.Source{
			Cls: asset.Metals, Defs: asset.MetalList,
			PriceNoise: 0.005, ChangeNoise: 1,
		},
		Log: log,
	}
	if cfg.Providers.Metals.APIKey != "" {
		metalsFallback.Live = metalsdev.NewLive(metalsdev.Config{
			BaseURL:  cfg.Providers.Metals.BaseURL,
			APIKey:   cfg.Providers.Metals.APIKey,
			CacheTTL: time.Duration(cfg.Providers.Metals.CacheTTLMin) * time.Minute,
		}, client, log)
	}

	// Soft commodities have no viable free live source and are always
	// synthetic.
	softs := &synthetic.Source{
		Cls: asset.SoftCommodities, Defs: asset.SoftList,
		PriceNoise: 0.015, ChangeNoise: 1.5,
	}

	sources := []provider.Source{crypto, stocks, etfs, forex, metalsFallback, softs}
	return sources, fx
}
