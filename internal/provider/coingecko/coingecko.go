// Package coingecko fetches cryptocurrency quotes. No API key required;
// the free tier allows roughly 30 calls per minute.
package coingecko

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/httpx"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

type Config struct {
	BaseURL string
	Coins   []asset.Definition
}

// Source issues one batched request for all configured coin ids. Failure
// isolation is per coin: a coin missing from the response becomes a failed
// record without affecting the others.
type Source struct {
	cfg    Config
	client *httpx.Client
	log    *zap.Logger
}

func New(cfg Config, hc *httpx.Client, log *zap.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Coins) == 0 {
		cfg.Coins = asset.Coins
	}
	return &Source{cfg: cfg, client: hc, log: log}
}

func (s *Source) Class() asset.Class { return asset.Crypto }

func (s *Source) Fetch(ctx context.Context, exchangeRate float64, currency string) ([]asset.Quote, error) {
	ids := make([]string, 0, len(s.cfg.Coins))
	for _, c := range s.cfg.Coins {
		ids = append(ids, c.ID)
	}
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true",
		s.cfg.BaseURL, strings.Join(ids, ","))

	// Keyed by coin id: {"bitcoin": {"usd": 65000, "usd_24h_change": 2.1}}
	var data map[string]map[string]float64
	if err := s.client.GetJSON(ctx, url, &data); err != nil {
		return nil, fmt.Errorf("coingecko batch: %w", err)
	}

	out := make([]asset.Quote, 0, len(s.cfg.Coins))
	for _, coin := range s.cfg.Coins {
		q := coin.NewQuote()
		entry, ok := data[coin.ID]
		if !ok {
			q.Failed = true
			s.log.Warn("coin missing from response", zap.String("id", coin.ID))
			out = append(out, q)
			continue
		}
		q.PriceUSD = entry["usd"]
		q.Price = asset.Convert(q.PriceUSD, currency, exchangeRate)
		q.Change24h = entry["usd_24h_change"]
		q.Loaded = true
		out = append(out, q)
	}
	return out, nil
}
