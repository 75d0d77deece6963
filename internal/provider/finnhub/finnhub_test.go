package finnhub

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/httpx"
	"markethub/internal/provider/ratelimit"
)

var testDefs = []asset.Definition{
	{Symbol: "AAPL", Name: "Apple"},
	{Symbol: "MSFT", Name: "Microsoft"},
}

func newSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := Config{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		Cls:         asset.Stocks,
		Defs:        testDefs,
		ChangeNoise: 2,
	}
	return New(cfg, httpx.New(2*time.Second), &ratelimit.Gate{}, zap.NewNop())
}

func TestFetch_LiveQuotes(t *testing.T) {
	t.Parallel()

	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("token"))
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			w.Write([]byte(`{"c": 232.5, "dp": 1.2, "h": 235.0, "l": 230.1}`))
		case "MSFT":
			w.Write([]byte(`{"c": 425.8, "dp": -0.4, "h": 430.0, "l": 424.2}`))
		}
	})

	quotes, err := src.Fetch(t.Context(), 1, asset.USD)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.Equal(t, 232.5, quotes[0].Price)
	require.Equal(t, 1.2, quotes[0].Change24h)
	require.Equal(t, 235.0, quotes[0].High)
	require.True(t, quotes[0].Loaded)
	require.False(t, quotes[0].Simulated)
}

func TestFetch_OneFailingSymbolFallsBackAlone(t *testing.T) {
	t.Parallel()

	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "AAPL" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"c": 425.8, "dp": -0.4}`))
	})

	quotes, err := src.Fetch(t.Context(), 1, asset.USD)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	// AAPL simulated within ±1% of its reference price.
	base := asset.BasePrice(asset.Stocks, "AAPL")
	require.True(t, quotes[0].Simulated)
	require.True(t, quotes[0].Loaded)
	require.InDelta(t, base, quotes[0].PriceUSD, base*0.01+1e-9)

	// MSFT stays live.
	require.False(t, quotes[1].Simulated)
	require.Equal(t, 425.8, quotes[1].Price)
}

func TestFetch_NonPositiveQuoteIsSimulated(t *testing.T) {
	t.Parallel()

	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 0, "dp": 0}`))
	})

	quotes, err := src.Fetch(t.Context(), 1, asset.USD)
	require.NoError(t, err)
	for _, q := range quotes {
		require.True(t, q.Simulated, q.Symbol)
		require.True(t, q.Loaded, q.Symbol)
		require.Greater(t, q.Price, 0.0, q.Symbol)
	}
}

func TestFetch_ConvertsToEUR(t *testing.T) {
	t.Parallel()

	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 100, "dp": 0.5}`))
	})

	quotes, err := src.Fetch(t.Context(), 0.92, asset.EUR)
	require.NoError(t, err)
	for _, q := range quotes {
		require.Equal(t, 100.0, q.PriceUSD)
		require.InEpsilon(t, 92.0, q.Price, 1e-12)
	}
}

func TestFetch_PacesRequests(t *testing.T) {
	t.Parallel()

	var stamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stamps = append(stamps, time.Now())
		fmt.Fprint(w, `{"c": 100, "dp": 0}`)
	}))
	t.Cleanup(srv.Close)

	gate := &ratelimit.Gate{Interval: 30 * time.Millisecond}
	src := New(Config{BaseURL: srv.URL, Cls: asset.Stocks, Defs: testDefs, ChangeNoise: 2},
		httpx.New(2*time.Second), gate, zap.NewNop())

	_, err := src.Fetch(t.Context(), 1, asset.USD)
	require.NoError(t, err)
	require.Len(t, stamps, 2)
	require.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 25*time.Millisecond)
}
