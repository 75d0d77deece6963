// Package store owns the single shared mutable cell of the process: the
// current snapshot, user preferences, and transient UI flags. All mutation
// goes through Update, which replaces the state atomically and notifies
// subscribers with (new, previous) pairs.
package store

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"markethub/internal/asset"
	"markethub/internal/storage"
)

// Themes in cycle order.
var Themes = []string{"dark", "light", "oled"}

// Sort fields accepted by SetSortPreference.
const (
	SortByName   = "name"
	SortByPrice  = "price"
	SortByChange = "change24h"
)

type SortPreference struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc or desc
}

// Favorite addresses one asset as (class, identity).
type Favorite struct {
	Class asset.Class `json:"class"`
	ID    string      `json:"id"`
}

// State is the full client-visible state. Reads get a copy whose top-level
// collections are detached from the store's own.
type State struct {
	Snapshot asset.Snapshot       `json:"snapshot"`
	Errors   map[asset.Class]bool `json:"errors"`

	Countdown int  `json:"countdown"`
	Loading   bool `json:"loading"`

	Currency          string          `json:"currency"`
	Theme             string          `json:"theme"`
	SortBy            SortPreference  `json:"sortBy"`
	SearchQuery       string          `json:"searchQuery"`
	CollapsedSections map[string]bool `json:"collapsedSections"`
	Favorites         []Favorite      `json:"favorites"`
}

func (st State) clone() State {
	out := st
	out.Errors = make(map[asset.Class]bool, len(st.Errors))
	for k, v := range st.Errors {
		out.Errors[k] = v
	}
	out.CollapsedSections = make(map[string]bool, len(st.CollapsedSections))
	for k, v := range st.CollapsedSections {
		out.CollapsedSections[k] = v
	}
	out.Favorites = append([]Favorite(nil), st.Favorites...)
	if st.Snapshot.Data != nil {
		out.Snapshot.Data = make(map[asset.Class][]asset.Quote, len(st.Snapshot.Data))
		for k, v := range st.Snapshot.Data {
			out.Snapshot.Data[k] = v
		}
	}
	return out
}

// Subscriber receives every state transition. Subscribers run synchronously
// in unspecified order; a panicking subscriber is isolated and logged.
type Subscriber func(state, prev State)

// Preference storage keys.
const (
	keyCurrency = "currency"
	keyTheme    = "theme"
	keySort     = "sort"
	keySections = "sections"
	keyFavs     = "favorites"
	keySearch   = "search"
)

type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]Subscriber
	nextID int

	prefs *storage.Store
	log   *zap.Logger
}

// New builds a store seeded with persisted preferences, falling back to
// defaults for anything missing.
func New(prefs *storage.Store, refreshInterval int, log *zap.Logger) *Store {
	st := State{
		Errors:            map[asset.Class]bool{},
		Countdown:         refreshInterval,
		Currency:          asset.USD,
		Theme:             Themes[0],
		SortBy:            SortPreference{Field: SortByName, Direction: "asc"},
		CollapsedSections: map[string]bool{},
		Snapshot:          asset.Snapshot{Data: map[asset.Class][]asset.Quote{}, ExchangeRate: 1},
	}
	prefs.Get(keyCurrency, &st.Currency)
	prefs.Get(keyTheme, &st.Theme)
	prefs.Get(keySort, &st.SortBy)
	prefs.Get(keySections, &st.CollapsedSections)
	prefs.Get(keyFavs, &st.Favorites)
	prefs.Get(keySearch, &st.SearchQuery)

	return &Store{state: st, subs: map[int]Subscriber{}, prefs: prefs, log: log}
}

// State returns the current state. Updates replace the whole state object,
// so a returned copy is never partial or inconsistent.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Update atomically applies mutate to a copy of the state, installs it, then
// notifies every subscriber with (new, previous).
func (s *Store) Update(mutate func(*State)) {
	s.mu.Lock()
	prev := s.state
	next := prev.clone()
	mutate(&next)
	s.state = next
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		s.notify(fn, next, prev)
	}
}

func (s *Store) notify(fn Subscriber, state, prev State) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("subscriber panicked", zap.Any("panic", r))
		}
	}()
	fn(state, prev)
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ToggleCurrency flips the display currency between USD and EUR, persists it,
// and returns the new value. Display prices are recomputed from the retained
// USD values in the same update, so the toggle takes effect immediately
// without a refetch.
func (s *Store) ToggleCurrency() string {
	next := asset.EUR
	if s.State().Currency == asset.EUR {
		next = asset.USD
	}
	s.prefs.Set(keyCurrency, next)
	s.Update(func(st *State) {
		st.Currency = next
		reconvert(&st.Snapshot, next)
	})
	return next
}

// reconvert rebuilds each class's display prices from PriceUSD at the
// snapshot's exchange rate. Forex is skipped: fx rates are USD-relative and
// never display-converted. Slices are reallocated because state copies share
// their quote slices with the states they were cloned from.
func reconvert(snap *asset.Snapshot, currency string) {
	for class, quotes := range snap.Data {
		if class == asset.Forex {
			continue
		}
		out := make([]asset.Quote, len(quotes))
		copy(out, quotes)
		for i := range out {
			if out[i].Loaded {
				out[i].Price = asset.Convert(out[i].PriceUSD, currency, snap.ExchangeRate)
			}
		}
		snap.Data[class] = out
	}
}

// CycleTheme advances to the next theme, persists it, and returns it.
func (s *Store) CycleTheme() string {
	cur := s.State().Theme
	next := Themes[0]
	for i, t := range Themes {
		if t == cur {
			next = Themes[(i+1)%len(Themes)]
			break
		}
	}
	s.prefs.Set(keyTheme, next)
	s.Update(func(st *State) { st.Theme = next })
	return next
}

// ToggleSection flips a section's collapsed flag and reports the new value.
func (s *Store) ToggleSection(id string) bool {
	collapsed := !s.State().CollapsedSections[id]
	s.Update(func(st *State) {
		if collapsed {
			st.CollapsedSections[id] = true
		} else {
			delete(st.CollapsedSections, id)
		}
		s.prefs.Set(keySections, st.CollapsedSections)
	})
	return collapsed
}

// ToggleFavorite flips the favorite flag for (class, id) and reports whether
// the asset is now a favorite.
func (s *Store) ToggleFavorite(class asset.Class, id string) bool {
	var nowFav bool
	s.Update(func(st *State) {
		for i, f := range st.Favorites {
			if f.Class == class && f.ID == id {
				st.Favorites = append(st.Favorites[:i], st.Favorites[i+1:]...)
				s.prefs.Set(keyFavs, st.Favorites)
				return
			}
		}
		st.Favorites = append(st.Favorites, Favorite{Class: class, ID: id})
		nowFav = true
		s.prefs.Set(keyFavs, st.Favorites)
	})
	return nowFav
}

// IsFavorite reports whether (class, id) is currently favorited.
func (s *Store) IsFavorite(class asset.Class, id string) bool {
	for _, f := range s.State().Favorites {
		if f.Class == class && f.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) SetSortPreference(field, direction string) {
	pref := SortPreference{Field: field, Direction: direction}
	s.prefs.Set(keySort, pref)
	s.Update(func(st *State) { st.SortBy = pref })
}

// SetSearchQuery stores the query exactly as typed; matching is
// case-insensitive at filter time.
func (s *Store) SetSearchQuery(query string) {
	s.prefs.Set(keySearch, query)
	s.Update(func(st *State) { st.SearchQuery = query })
}

// SetSnapshot installs the result of one refresh cycle as a single atomic
// update.
func (s *Store) SetSnapshot(snap asset.Snapshot, errors map[asset.Class]bool) {
	s.Update(func(st *State) {
		st.Snapshot = snap
		st.Errors = errors
	})
}

func (s *Store) SetLoading(loading bool) {
	s.Update(func(st *State) { st.Loading = loading })
}

func (s *Store) SetCountdown(seconds int) {
	s.Update(func(st *State) { st.Countdown = seconds })
}

// SortAssets returns list ordered by the active sort preference. The sort is
// stable: ties keep their original relative order. String fields compare
// case-insensitively.
func (s *Store) SortAssets(list []asset.Quote) []asset.Quote {
	pref := s.State().SortBy
	out := append([]asset.Quote(nil), list...)
	asc := pref.Direction != "desc"
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch pref.Field {
		case SortByPrice:
			less = out[i].Price < out[j].Price
		case SortByChange:
			less = out[i].Change24h < out[j].Change24h
		default:
			less = strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
		if asc {
			return less
		}
		var greater bool
		switch pref.Field {
		case SortByPrice:
			greater = out[i].Price > out[j].Price
		case SortByChange:
			greater = out[i].Change24h > out[j].Change24h
		default:
			greater = strings.ToLower(out[i].Name) > strings.ToLower(out[j].Name)
		}
		return greater
	})
	return out
}

// FilterBySearch returns the entries matching the active search query by
// case-insensitive substring against name or identity. An empty query passes
// everything through.
func (s *Store) FilterBySearch(list []asset.Quote) []asset.Quote {
	query := strings.ToLower(s.State().SearchQuery)
	if query == "" {
		return list
	}
	out := make([]asset.Quote, 0, len(list))
	for _, q := range list {
		if strings.Contains(strings.ToLower(q.Name), query) ||
			strings.Contains(strings.ToLower(q.Symbol), query) ||
			strings.Contains(strings.ToLower(q.ID), query) {
			out = append(out, q)
		}
	}
	return out
}

// FavoriteQuote is a favorited asset resolved against the current snapshot.
type FavoriteQuote struct {
	asset.Quote
	Class asset.Class `json:"class"`
}

// FavoritesData resolves each favorite against the current snapshot.
// Favorites whose asset no longer exists are silently dropped.
func (s *Store) FavoritesData() []FavoriteQuote {
	st := s.State()
	out := make([]FavoriteQuote, 0, len(st.Favorites))
	for _, fav := range st.Favorites {
		for _, q := range st.Snapshot.Data[fav.Class] {
			if q.Is(fav.ID) {
				out = append(out, FavoriteQuote{Quote: q, Class: fav.Class})
				break
			}
		}
	}
	return out
}
