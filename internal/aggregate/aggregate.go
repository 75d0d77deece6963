// Package aggregate derives the market summary shown above the sections:
// asset totals, average 24h change, and a coarse trend classification.
package aggregate

import (
	"math"

	"markethub/internal/asset"
)

// Trend labels.
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"
)

// trendThreshold is the average-change band, in percentage points, treated
// as neutral.
const trendThreshold = 0.5

type Summary struct {
	TotalAssets   int     `json:"totalAssets"`
	AverageChange float64 `json:"averageChange"`
	Trend         string  `json:"trend"`
	// Degraded is true when any asset class failed its live fetch.
	Degraded bool `json:"degraded"`
	// Markets is filled by the serving layer from the wall clock; Summarize
	// itself stays a pure function of the snapshot.
	Markets MarketStatus `json:"markets"`
}

// Summarize computes the summary for one snapshot. Forex counts only loaded
// pairs and contributes no changes (its 24h change is synthesized, not
// market data); NaN changes are filtered from the average.
func Summarize(data map[asset.Class][]asset.Quote, errors map[asset.Class]bool) Summary {
	var sum Summary
	var total float64
	var n int

	for class, quotes := range data {
		for _, q := range quotes {
			if class == asset.Forex {
				if q.Loaded {
					sum.TotalAssets++
				}
				continue
			}
			sum.TotalAssets++
			if !math.IsNaN(q.Change24h) {
				total += q.Change24h
				n++
			}
		}
	}
	if n > 0 {
		sum.AverageChange = total / float64(n)
	}

	switch {
	case sum.AverageChange >= trendThreshold:
		sum.Trend = TrendBullish
	case sum.AverageChange <= -trendThreshold:
		sum.Trend = TrendBearish
	default:
		sum.Trend = TrendNeutral
	}

	for _, failed := range errors {
		if failed {
			sum.Degraded = true
			break
		}
	}
	return sum
}
