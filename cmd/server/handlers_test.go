package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/refresh"
	"markethub/internal/store"
)

type fixedRates struct{ rate float64 }

func (f fixedRates) ExchangeRate(context.Context) (float64, error) { return f.rate, nil }

func newTestAPI(t *testing.T) (*api, *store.Store) {
	t.Helper()
	st := store.New(nil, 60, zap.NewNop())
	orch := refresh.New(st, fixedRates{rate: 0.92}, nil, 60, time.Minute, zap.NewNop())
	h := newHub(st, zap.NewNop())
	t.Cleanup(h.close)
	return &api{store: st, orch: orch, hub: h, log: zap.NewNop()}, st
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	a, _ := newTestAPI(t)
	rec := doJSON(t, a.routes(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	st.SetSnapshot(asset.Snapshot{
		Data: map[asset.Class][]asset.Quote{
			asset.Crypto: {{ID: "bitcoin", Symbol: "BTC", Price: 65000, Loaded: true}},
		},
		ExchangeRate: 0.92,
	}, map[asset.Class]bool{})

	rec := doJSON(t, a.routes(), http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), `"bitcoin"`)
	require.Contains(t, rec.Body.String(), `"exchangeRate":0.92`)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	st.SetSnapshot(asset.Snapshot{
		Data: map[asset.Class][]asset.Quote{
			asset.Stocks: {{Change24h: 2, Loaded: true}},
		},
	}, map[asset.Class]bool{asset.Metals: true})

	rec := doJSON(t, a.routes(), http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"trend":"bullish"`)
	require.Contains(t, rec.Body.String(), `"degraded":true`)
	require.Contains(t, rec.Body.String(), `"nyse"`)
	require.Contains(t, rec.Body.String(), `"crypto":"open"`)
}

func TestToggleCurrency(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	rec := doJSON(t, a.routes(), http.MethodPost, "/api/currency/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"currency":"EUR"`)
	require.Equal(t, asset.EUR, st.State().Currency)
}

func TestCycleTheme(t *testing.T) {
	t.Parallel()

	a, _ := newTestAPI(t)
	rec := doJSON(t, a.routes(), http.MethodPost, "/api/theme/cycle", "")
	require.Contains(t, rec.Body.String(), `"theme":"light"`)
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	h := a.routes()

	rec := doJSON(t, h, http.MethodPost, "/api/favorites/toggle", `{"class":"crypto","id":"bitcoin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"favorite":true`)
	require.True(t, st.IsFavorite(asset.Crypto, "bitcoin"))

	rec = doJSON(t, h, http.MethodPost, "/api/favorites/toggle", `{"class":"crypto","id":"bitcoin"}`)
	require.Contains(t, rec.Body.String(), `"favorite":false`)

	rec = doJSON(t, h, http.MethodPost, "/api/favorites/toggle", `{"class":"crypto"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/favorites/toggle", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavoritesEndpoint(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	st.SetSnapshot(asset.Snapshot{
		Data: map[asset.Class][]asset.Quote{
			asset.Crypto: {{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Loaded: true}},
		},
	}, map[asset.Class]bool{})
	st.ToggleFavorite(asset.Crypto, "bitcoin")

	rec := doJSON(t, a.routes(), http.MethodGet, "/api/favorites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"class":"crypto"`)
	require.Contains(t, rec.Body.String(), `"Bitcoin"`)
}

func TestToggleSection(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	rec := doJSON(t, a.routes(), http.MethodPost, "/api/sections/toggle", `{"id":"metals"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"collapsed":true`)
	require.True(t, st.State().CollapsedSections["metals"])

	rec = doJSON(t, a.routes(), http.MethodPost, "/api/sections/toggle", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetSort(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	h := a.routes()

	rec := doJSON(t, h, http.MethodPost, "/api/sort", `{"field":"price","direction":"desc"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, store.SortPreference{Field: store.SortByPrice, Direction: "desc"}, st.State().SortBy)

	rec = doJSON(t, h, http.MethodPost, "/api/sort", `{"field":"volume","direction":"asc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/sort", `{"field":"name","direction":"sideways"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetSearch(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	rec := doJSON(t, a.routes(), http.MethodPost, "/api/search", `{"query":"Bit"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "Bit", st.State().SearchQuery)
}

func TestRefreshAccepted(t *testing.T) {
	t.Parallel()

	a, _ := newTestAPI(t)
	rec := doJSON(t, a.routes(), http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"accepted":true`)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	a, _ := newTestAPI(t)
	rec := doJSON(t, a.routes(), http.MethodGet, "/api/refresh", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebSocketReceivesStateTransitions(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool {
		a.hub.mu.Lock()
		defer a.hub.mu.Unlock()
		return len(a.hub.clients) == 1
	}, time.Second, time.Millisecond)

	st.SetLoading(true)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got store.State
	require.NoError(t, conn.ReadJSON(&got))
	require.True(t, got.Loading)
}

func TestBroadcastSurvivesDeadClient(t *testing.T) {
	t.Parallel()

	a, st := newTestAPI(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	dead, resp1, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp1.Body.Close()
	live, resp2, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	defer live.Close()

	require.Eventually(t, func() bool {
		a.hub.mu.Lock()
		defer a.hub.mu.Unlock()
		return len(a.hub.clients) == 2
	}, time.Second, time.Millisecond)

	require.NoError(t, dead.Close())
	require.Eventually(t, func() bool {
		a.hub.mu.Lock()
		defer a.hub.mu.Unlock()
		return len(a.hub.clients) == 1
	}, time.Second, time.Millisecond)

	// The surviving client keeps receiving updates without delay.
	st.SetLoading(true)
	live.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got store.State
	require.NoError(t, live.ReadJSON(&got))
	require.True(t, got.Loading)
}
