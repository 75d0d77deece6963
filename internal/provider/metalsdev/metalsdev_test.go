package metalsdev

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/httpx"
)

func TestFetch_MapsSymbolsToMetalNames(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		require.Equal(t, "USD", r.URL.Query().Get("currency"))
		w.Write([]byte(`{"metals":{"gold":2650.5,"silver":30.2,"platinum":980.0}}`))
	}))
	defer srv.Close()

	live := NewLive(Config{BaseURL: srv.URL, APIKey: "test-key"}, httpx.New(2*time.Second), zap.NewNop())
	quotes, err := live.Fetch(t.Context(), 1, asset.USD)
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	bySymbol := map[string]asset.Quote{}
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}
	require.Equal(t, 2650.5, bySymbol["XAU"].PriceUSD)
	require.Equal(t, 30.2, bySymbol["XAG"].PriceUSD)
	require.Equal(t, 980.0, bySymbol["XPT"].PriceUSD)
	for _, q := range quotes {
		require.True(t, q.Loaded)
		require.False(t, q.Simulated)
	}
}

func TestFetch_ReusesCachedPayload(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"metals":{"gold":2650.5,"silver":30.2,"platinum":980.0}}`))
	}))
	defer srv.Close()

	live := NewLive(Config{BaseURL: srv.URL, APIKey: "k", CacheTTL: time.Hour}, httpx.New(2*time.Second), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := live.Fetch(t.Context(), 1, asset.USD)
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), calls.Load())
}

func TestFetch_CachedPayloadConvertsPerCall(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metals":{"gold":2000.0,"silver":30.0,"platinum":900.0}}`))
	}))
	defer srv.Close()

	live := NewLive(Config{BaseURL: srv.URL, APIKey: "k"}, httpx.New(2*time.Second), zap.NewNop())

	_, err := live.Fetch(t.Context(), 0.92, asset.USD)
	require.NoError(t, err)

	// Same cached payload, different display currency.
	quotes, err := live.Fetch(t.Context(), 0.92, asset.EUR)
	require.NoError(t, err)
	for _, q := range quotes {
		require.InEpsilon(t, q.PriceUSD*0.92, q.Price, 1e-12)
	}
}

func TestFetch_MissingMetalFailsAlone(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metals":{"gold":2650.5,"silver":30.2}}`))
	}))
	defer srv.Close()

	live := NewLive(Config{BaseURL: srv.URL, APIKey: "k"}, httpx.New(2*time.Second), zap.NewNop())
	quotes, err := live.Fetch(t.Context(), 1, asset.USD)
	require.NoError(t, err)

	for _, q := range quotes {
		if q.Symbol == "XPT" {
			require.True(t, q.Failed)
			require.False(t, q.Loaded)
			require.Zero(t, q.Price)
		} else {
			require.True(t, q.Loaded)
		}
	}
}

func TestFetch_UpstreamErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	live := NewLive(Config{BaseURL: srv.URL, APIKey: "k"}, httpx.New(2*time.Second), zap.NewNop())
	_, err := live.Fetch(t.Context(), 1, asset.USD)
	require.Error(t, err)
}
