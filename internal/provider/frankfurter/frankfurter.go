// Package frankfurter fetches forex rates. No API key required and no
// published rate limit. The provider does not report 24h changes, so those
// are always synthesized.
package frankfurter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/httpx"
	"markethub/internal/provider/synthetic"
)

const (
	DefaultBaseURL = "https://api.frankfurter.app"

	// FallbackRate is the USD to EUR rate used when the exchange-rate fetch
	// fails; the cycle proceeds with it rather than aborting.
	FallbackRate = 0.92
)

// supported lists the currencies Frankfurter publishes. Pairs whose base is
// absent take the synthetic path individually, even when the batch succeeds.
var supported = map[string]bool{
	"EUR": true, "USD": true, "GBP": true, "JPY": true, "CHF": true,
	"AUD": true, "CAD": true, "CNY": true, "HKD": true, "NZD": true,
	"SEK": true, "NOK": true, "DKK": true, "SGD": true, "KRW": true,
	"TRY": true, "INR": true, "MXN": true, "ZAR": true, "BRL": true,
	"PLN": true, "THB": true, "IDR": true, "HUF": true, "CZK": true,
	"ILS": true, "PHP": true, "MYR": true, "RON": true, "BGN": true,
	"ISK": true, "HRK": true,
}

type Config struct {
	BaseURL string
	Pairs   []asset.Definition
	// ChangeNoise is the half-width of the synthesized 24h change in
	// percentage points.
	ChangeNoise float64
	// SimNoise is the price noise fraction for per-pair synthetic rates.
	SimNoise float64
}

type Source struct {
	cfg    Config
	client *httpx.Client
	log    *zap.Logger
}

func New(cfg Config, hc *httpx.Client, log *zap.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Pairs) == 0 {
		cfg.Pairs = asset.ForexList
	}
	if cfg.ChangeNoise == 0 {
		cfg.ChangeNoise = 0.75
	}
	if cfg.SimNoise == 0 {
		cfg.SimNoise = 0.005
	}
	return &Source{cfg: cfg, client: hc, log: log}
}

func (s *Source) Class() asset.Class { return asset.Forex }

type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// ExchangeRate returns the current USD to EUR rate. It is fetched once per
// refresh cycle, before the provider fan-out, because every conversion in the
// cycle depends on it; that makes it the one request worth a second attempt.
func (s *Source) ExchangeRate(ctx context.Context) (float64, error) {
	var resp latestResponse
	url := s.cfg.BaseURL + "/latest?from=USD&to=EUR"
	err := httpx.WithRetry(ctx, 2, 500*time.Millisecond, func() error {
		return s.client.GetJSON(ctx, url, &resp)
	})
	if err != nil {
		return 0, fmt.Errorf("exchange rate: %w", err)
	}
	rate, ok := resp.Rates["EUR"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("exchange rate missing from response")
	}
	return rate, nil
}

// Fetch issues one batched request for all rates relative to USD and derives
// each configured pair from it. The currency argument is ignored: fx rates
// are USD-relative display values, not prices to convert.
func (s *Source) Fetch(ctx context.Context, _ float64, _ string) ([]asset.Quote, error) {
	var resp latestResponse
	if err := s.client.GetJSON(ctx, s.cfg.BaseURL+"/latest?from=USD", &resp); err != nil {
		return nil, fmt.Errorf("frankfurter batch: %w", err)
	}
	if len(resp.Rates) == 0 {
		return nil, fmt.Errorf("empty rate set")
	}

	out := make([]asset.Quote, 0, len(s.cfg.Pairs))
	for _, pair := range s.cfg.Pairs {
		out = append(out, s.pairQuote(pair, resp.Rates))
	}
	return out, nil
}

func (s *Source) pairQuote(pair asset.Definition, rates map[string]float64) asset.Quote {
	q := pair.NewQuote()
	if pair.CryptoPair {
		// Left unpriced; the merge step fills it from the crypto source.
		return q
	}

	if supported[pair.Base] && (pair.Base == asset.USD || rates[pair.Base] > 0) {
		var rate float64
		switch {
		case pair.Base == asset.USD:
			rate = rates[pair.Target]
		case pair.Target == asset.USD:
			rate = 1 / rates[pair.Base]
		default:
			// Both legs already USD-relative.
			rate = rates[pair.Base]
		}
		if pair.Inverse {
			rate = 1 / rate
		}
		q.Price = rate
		q.PriceUSD = rate
		q.Loaded = true
	} else {
		base := asset.BasePrice(asset.Forex, pair.Base)
		rate := base * (1 + synthetic.Noise(s.cfg.SimNoise))
		q.Price = rate
		q.PriceUSD = rate
		q.Loaded = true
		q.Simulated = true
	}

	// Not published by this provider.
	q.Change24h = synthetic.Noise(s.cfg.ChangeNoise)
	return q
}
