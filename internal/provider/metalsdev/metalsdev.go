// Package metalsdev fetches precious metal prices. The free tier allows only
// 25 calls per month, so the live path exists only when an API key is
// configured and its raw payload is cached for a long TTL; without a key the
// class is served synthetically.
package metalsdev

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/httpx"
	"markethub/internal/provider/cache"
	"markethub/internal/provider/synthetic"
)

const DefaultBaseURL = "https://api.metals.dev/v1"

// metalKeys maps catalog symbols to the provider's metal names.
var metalKeys = map[string]string{
	"XAU": "gold",
	"XAG": "silver",
	"XPT": "platinum",
}

type Config struct {
	BaseURL string
	APIKey  string
	Metals  []asset.Definition
	// CacheTTL bounds how long one live payload is reused across cycles.
	CacheTTL time.Duration
	// ChangeNoise is the half-width of the synthesized 24h change in
	// percentage points. The provider reports no 24h change.
	ChangeNoise float64
}

// Live fetches metal spot prices. Construct only when an API key is present;
// the caller routes the no-key case straight to the synthetic source.
type Live struct {
	cfg     Config
	log     *zap.Logger
	payload *cache.Payload
}

func NewLive(cfg Config, hc *httpx.Client, log *zap.Logger) *Live {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Metals) == 0 {
		cfg.Metals = asset.MetalList
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 12 * time.Hour
	}
	if cfg.ChangeNoise == 0 {
		cfg.ChangeNoise = 1
	}
	l := &Live{cfg: cfg, log: log}
	l.payload = &cache.Payload{
		TTL: cfg.CacheTTL,
		Load: func(ctx context.Context) (map[string]float64, error) {
			url := fmt.Sprintf("%s/latest?api_key=%s&currency=USD&unit=toz", cfg.BaseURL, cfg.APIKey)
			var resp struct {
				Metals map[string]float64 `json:"metals"`
			}
			if err := hc.GetJSON(ctx, url, &resp); err != nil {
				return nil, fmt.Errorf("metals latest: %w", err)
			}
			return resp.Metals, nil
		},
	}
	return l
}

func (l *Live) Class() asset.Class { return asset.Metals }

func (l *Live) Fetch(ctx context.Context, exchangeRate float64, currency string) ([]asset.Quote, error) {
	prices, err := l.payload.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]asset.Quote, 0, len(l.cfg.Metals))
	for _, def := range l.cfg.Metals {
		q := def.NewQuote()
		usd := prices[metalKeys[def.Symbol]]
		if usd <= 0 {
			q.Failed = true
			l.log.Warn("metal missing from response", zap.String("symbol", def.Symbol))
			out = append(out, q)
			continue
		}
		q.PriceUSD = usd
		q.Price = asset.Convert(usd, currency, exchangeRate)
		q.Change24h = synthetic.Noise(l.cfg.ChangeNoise)
		q.Loaded = true
		out = append(out, q)
	}
	return out, nil
}
