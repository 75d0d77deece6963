package main

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"markethub/internal/aggregate"
	"markethub/internal/asset"
	"markethub/internal/refresh"
	"markethub/internal/store"
)

type api struct {
	store *store.Store
	orch  *refresh.Orchestrator
	hub   *hub
	log   *zap.Logger
}

func (a *api) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.health)
	mux.HandleFunc("GET /api/snapshot", a.snapshot)
	mux.HandleFunc("GET /api/summary", a.summary)
	mux.HandleFunc("GET /api/favorites", a.favorites)
	mux.HandleFunc("POST /api/refresh", a.refresh)
	mux.HandleFunc("POST /api/currency/toggle", a.toggleCurrency)
	mux.HandleFunc("POST /api/theme/cycle", a.cycleTheme)
	mux.HandleFunc("POST /api/favorites/toggle", a.toggleFavorite)
	mux.HandleFunc("POST /api/sections/toggle", a.toggleSection)
	mux.HandleFunc("POST /api/sort", a.setSort)
	mux.HandleFunc("POST /api/search", a.setSearch)
	mux.HandleFunc("GET /ws", a.hub.serve)
	return mux
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *api) snapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.store.State())
}

func (a *api) summary(w http.ResponseWriter, _ *http.Request) {
	st := a.store.State()
	sum := aggregate.Summarize(st.Snapshot.Data, st.Errors)
	sum.Markets = aggregate.StatusAt(time.Now())
	writeJSON(w, sum)
}

func (a *api) favorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.store.FavoritesData())
}

// refresh requests an out-of-cycle refresh; a cycle already in flight absorbs
// the request.
func (a *api) refresh(w http.ResponseWriter, _ *http.Request) {
	a.orch.RequestRefresh()
	writeJSON(w, map[string]bool{"accepted": true})
}

func (a *api) toggleCurrency(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"currency": a.store.ToggleCurrency()})
}

func (a *api) cycleTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"theme": a.store.CycleTheme()})
}

func (a *api) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Class asset.Class `json:"class"`
		ID    string      `json:"id"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.Class == "" || body.ID == "" {
		http.Error(w, "class and id are required", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"favorite": a.store.ToggleFavorite(body.Class, body.ID)})
}

func (a *api) toggleSection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"collapsed": a.store.ToggleSection(body.ID)})
}

func (a *api) setSort(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field     string `json:"field"`
		Direction string `json:"direction"`
	}
	if !decode(w, r, &body) {
		return
	}
	switch body.Field {
	case store.SortByName, store.SortByPrice, store.SortByChange:
	default:
		http.Error(w, "unknown sort field", http.StatusBadRequest)
		return
	}
	if body.Direction != "asc" && body.Direction != "desc" {
		http.Error(w, "direction must be asc or desc", http.StatusBadRequest)
		return
	}
	a.store.SetSortPreference(body.Field, body.Direction)
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) setSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if !decode(w, r, &body) {
		return
	}
	a.store.SetSearchQuery(body.Query)
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
