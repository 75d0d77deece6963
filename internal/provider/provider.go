package provider

import (
	"context"

	"go.uber.org/zap"

	"markethub/internal/asset"
)

// Source produces the normalized quotes for one asset class. Prices are
// returned already converted into the display currency, with the USD value
// retained on each quote. The forex source ignores the currency argument:
// fx rates are published USD-relative and are not display-converted.
type Source interface {
	Class() asset.Class
	Fetch(ctx context.Context, exchangeRate float64, currency string) ([]asset.Quote, error)
}

// Fallback selects between a live and a synthetic source for one asset class.
// A nil Live (no API key configured) routes directly to Synthetic without
// attempting a network call; a failing Live falls back to Synthetic. The
// Synthetic source must not fail, so Fetch never returns an error.
type Fallback struct {
	Live      Source
	Synthetic Source
	Log       *zap.Logger
}

func (f *Fallback) Class() asset.Class { return f.Synthetic.Class() }

func (f *Fallback) Fetch(ctx context.Context, exchangeRate float64, currency string) ([]asset.Quote, error) {
	if f.Live == nil {
		return f.Synthetic.Fetch(ctx, exchangeRate, currency)
	}
	quotes, err := f.Live.Fetch(ctx, exchangeRate, currency)
	if err != nil {
		if f.Log != nil {
			f.Log.Warn("live fetch failed, serving fallback",
				zap.String("class", string(f.Class())),
				zap.Error(err))
		}
		return f.Synthetic.Fetch(ctx, exchangeRate, currency)
	}
	return quotes, nil
}
