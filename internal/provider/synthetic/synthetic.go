// Package synthetic fabricates plausible quotes from the static reference
// tables. Synthetic records are always loaded (a usable number is always
// produced) and flagged simulated, which is distinct from failed: failed means
// a live fetch was attempted and no number at all is known.
package synthetic

import (
	"context"
	"math/rand/v2"

	"markethub/internal/asset"
)

// Noise returns a uniform value in [-frac, +frac]. Used both for price noise
// (as a fraction of base price) and 24h-change synthesis (in percentage
// points).
func Noise(frac float64) float64 {
	return (rand.Float64() - 0.5) * 2 * frac
}

// Source generates synthetic quotes for one asset class.
type Source struct {
	Cls  asset.Class
	Defs []asset.Definition
	// PriceNoise is the half-width of the price band as a fraction of base
	// price; ChangeNoise the half-width of the synthesized 24h change in
	// percentage points.
	PriceNoise  float64
	ChangeNoise float64
}

func (s *Source) Class() asset.Class { return s.Cls }

func (s *Source) Fetch(_ context.Context, exchangeRate float64, currency string) ([]asset.Quote, error) {
	out := make([]asset.Quote, 0, len(s.Defs))
	for _, d := range s.Defs {
		q := d.NewQuote()
		if q.Pair != nil && q.Pair.CryptoPair {
			// Populated by the merge step from the crypto source.
			out = append(out, q)
			continue
		}
		base := asset.BasePrice(s.Cls, d.Symbol)
		usd := base * (1 + Noise(s.PriceNoise))
		q.PriceUSD = usd
		if s.Cls == asset.Forex {
			// FX rates are USD-relative and never display-converted.
			q.Price = usd
		} else {
			q.Price = asset.Convert(usd, currency, exchangeRate)
		}
		q.Change24h = Noise(s.ChangeNoise)
		q.Loaded = true
		q.Simulated = true
		out = append(out, q)
	}
	return out, nil
}

// Failed generates zero-valued failed records for one asset class. It is the
// fallback for classes whose prices are too volatile to fake credibly.
type Failed struct {
	Cls  asset.Class
	Defs []asset.Definition
}

func (f *Failed) Class() asset.Class { return f.Cls }

func (f *Failed) Fetch(context.Context, float64, string) ([]asset.Quote, error) {
	out := make([]asset.Quote, 0, len(f.Defs))
	for _, d := range f.Defs {
		q := d.NewQuote()
		q.Failed = true
		out = append(out, q)
	}
	return out, nil
}
