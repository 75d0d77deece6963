package asset

import "time"

// Class is one of the tracked asset categories.
type Class string

const (
	Crypto          Class = "crypto"
	Stocks          Class = "stocks"
	ETFs            Class = "etfs"
	Metals          Class = "metals"
	SoftCommodities Class = "softCommodities"
	Forex           Class = "forex"
)

// Classes lists all asset classes in display order.
var Classes = []Class{Forex, Crypto, Stocks, ETFs, Metals, SoftCommodities}

// PairInfo carries the forex-specific fields of a quote. Nil for every
// non-forex record.
type PairInfo struct {
	Base   string `json:"base"`
	Target string `json:"target"`
	// Inverse marks pairs the provider quotes as the reciprocal of the
	// displayed convention.
	Inverse bool `json:"inverse,omitempty"`
	// CryptoPair marks the single BTC pair whose price is sourced from the
	// crypto provider instead of the forex provider.
	CryptoPair bool `json:"cryptoPair,omitempty"`
}

// Quote is the normalized shape produced by all providers.
//
// Exactly one of three conditions holds at any time: live
// (Loaded && !Simulated), synthetic (Loaded && Simulated), or failed with no
// data (Failed && !Loaded).
type Quote struct {
	// ID is the provider-specific identifier; empty when Symbol is the identity.
	ID     string `json:"id,omitempty"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	// Unit is the physical unit for metals and commodities (oz, lb, bu, MT).
	Unit string `json:"unit,omitempty"`

	// Price is in the selected display currency; PriceUSD retains the
	// provider-native USD value so currency can be toggled without a refetch.
	Price     float64 `json:"price"`
	PriceUSD  float64 `json:"priceUSD"`
	Change24h float64 `json:"change24h"`
	High      float64 `json:"high,omitempty"`
	Low       float64 `json:"low,omitempty"`

	Loaded    bool `json:"loaded"`
	Simulated bool `json:"simulated,omitempty"`
	Failed    bool `json:"failed,omitempty"`

	Pair *PairInfo `json:"pair,omitempty"`
}

// Identity returns the lookup key for the quote: the provider id when one
// exists, the symbol otherwise.
func (q Quote) Identity() string {
	if q.ID != "" {
		return q.ID
	}
	return q.Symbol
}

// Is reports whether id addresses this quote by provider id or symbol.
func (q Quote) Is(id string) bool {
	return (q.ID != "" && q.ID == id) || q.Symbol == id
}

// Snapshot is the full set of current quotes across all asset classes at a
// point in time. It is replaced wholesale once per refresh cycle and never
// mutated in place.
type Snapshot struct {
	Data map[Class][]Quote `json:"data"`
	// ExchangeRate is the USD to EUR scalar used for every conversion in the
	// cycle that produced this snapshot.
	ExchangeRate float64   `json:"exchangeRate"`
	LastUpdate   time.Time `json:"lastUpdate"`
}

// Currencies accepted for display.
const (
	USD = "USD"
	EUR = "EUR"
)

// Convert translates a USD price into the display currency. Identity for USD.
func Convert(priceUSD float64, currency string, usdToEUR float64) float64 {
	if currency == EUR {
		return priceUSD * usdToEUR
	}
	return priceUSD
}
