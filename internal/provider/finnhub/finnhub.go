// Package finnhub fetches stock and ETF quotes. The free tier allows 60 calls
// per minute; requests are issued one symbol at a time behind a pacing gate,
// and each symbol falls back independently to a synthetic quote.
package finnhub

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/httpx"
	"markethub/internal/provider/ratelimit"
	"markethub/internal/provider/synthetic"
)

const DefaultBaseURL = "https://finnhub.io/api/v1"

type Config struct {
	BaseURL string
	APIKey  string
	// Class is Stocks or ETFs; the same adapter serves both symbol lists.
	Cls  asset.Class
	Defs []asset.Definition
	// ChangeNoise is the half-width, in percentage points, of the synthesized
	// 24h change on fallback quotes.
	ChangeNoise float64
}

type Source struct {
	cfg    Config
	client *httpx.Client
	gate   *ratelimit.Gate
	log    *zap.Logger
}

func New(cfg Config, hc *httpx.Client, gate *ratelimit.Gate, log *zap.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Source{cfg: cfg, client: hc, gate: gate, log: log}
}

func (s *Source) Class() asset.Class { return s.cfg.Cls }

// quote is Finnhub's quote response: c current price, dp percent change,
// h/l day high/low.
type quote struct {
	C  float64 `json:"c"`
	DP float64 `json:"dp"`
	H  float64 `json:"h"`
	L  float64 `json:"l"`
}

// Fetch requests each configured symbol sequentially. It never fails as a
// whole: a symbol whose request errors, or whose quote is non-positive, gets
// a synthetic quote within ±1% of its reference price.
func (s *Source) Fetch(ctx context.Context, exchangeRate float64, currency string) ([]asset.Quote, error) {
	out := make([]asset.Quote, 0, len(s.cfg.Defs))
	for _, def := range s.cfg.Defs {
		if err := s.gate.Wait(ctx); err != nil {
			return out, err
		}
		q, err := s.fetchSymbol(ctx, def, exchangeRate, currency)
		if err != nil {
			s.log.Warn("symbol fetch failed, simulating",
				zap.String("class", string(s.cfg.Cls)),
				zap.String("symbol", def.Symbol),
				zap.Error(err))
			q = s.simulate(def, exchangeRate, currency)
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *Source) fetchSymbol(ctx context.Context, def asset.Definition, exchangeRate float64, currency string) (asset.Quote, error) {
	url := fmt.Sprintf("%s/quote?symbol=%s&token=%s", s.cfg.BaseURL, def.Symbol, s.cfg.APIKey)
	var resp quote
	if err := s.client.GetJSON(ctx, url, &resp); err != nil {
		return asset.Quote{}, err
	}
	if resp.C <= 0 {
		return asset.Quote{}, fmt.Errorf("non-positive quote for %s: %v", def.Symbol, resp.C)
	}
	q := def.NewQuote()
	q.PriceUSD = resp.C
	q.Price = asset.Convert(resp.C, currency, exchangeRate)
	q.Change24h = resp.DP
	q.High = resp.H
	q.Low = resp.L
	q.Loaded = true
	return q, nil
}

func (s *Source) simulate(def asset.Definition, exchangeRate float64, currency string) asset.Quote {
	base := asset.BasePrice(s.cfg.Cls, def.Symbol)
	usd := base * (1 + synthetic.Noise(0.01))
	q := def.NewQuote()
	q.PriceUSD = usd
	q.Price = asset.Convert(usd, currency, exchangeRate)
	q.Change24h = synthetic.Noise(s.cfg.ChangeNoise)
	q.Loaded = true
	q.Simulated = true
	return q
}
