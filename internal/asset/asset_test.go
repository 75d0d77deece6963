package asset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert_USDIsIdentity(t *testing.T) {
	t.Parallel()
	require.Equal(t, 123.45, Convert(123.45, USD, 0.92))
}

func TestConvert_EURMultipliesByRate(t *testing.T) {
	t.Parallel()
	require.Equal(t, 100*0.92, Convert(100, EUR, 0.92))
}

func TestConvert_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, rate := range []float64{0.5, 0.92, 1.0, 1.37} {
		price := 2650.0
		eur := Convert(price, EUR, rate)
		back := Convert(eur, EUR, 1/rate)
		require.InEpsilon(t, price, back, 1e-12, "rate %v", rate)
	}
}

func TestCatalog_UnitAndPairNeverMix(t *testing.T) {
	t.Parallel()

	// Unit-bearing records (metals, commodities) never carry an inverse-rate
	// flag; forex pairs never carry a physical unit.
	for _, class := range []Class{Metals, SoftCommodities} {
		for _, d := range Definitions(class) {
			require.NotEmpty(t, d.Unit, "%s %s", class, d.Symbol)
			require.False(t, d.Inverse, "%s %s", class, d.Symbol)
			require.Empty(t, d.Base, "%s %s", class, d.Symbol)
		}
	}
	for _, d := range ForexList {
		require.Empty(t, d.Unit, "forex %s", d.Symbol)
		require.NotEmpty(t, d.Base, "forex %s", d.Symbol)
		require.Equal(t, USD, d.Target, "forex %s", d.Symbol)
	}
}

func TestCatalog_EveryClassHasUniqueIdentities(t *testing.T) {
	t.Parallel()

	for _, class := range Classes {
		defs := Definitions(class)
		require.NotEmpty(t, defs, "%s has no catalog", class)
		seen := map[string]bool{}
		for _, d := range defs {
			q := d.NewQuote()
			require.False(t, seen[q.Identity()], "%s duplicate %s", class, q.Identity())
			seen[q.Identity()] = true
		}
	}
}

func TestCatalog_ExactlyOneCryptoPair(t *testing.T) {
	t.Parallel()

	var n int
	for _, d := range ForexList {
		if d.CryptoPair {
			n++
			require.Equal(t, "BTC", d.Base)
		}
	}
	require.Equal(t, 1, n)
}

func TestBasePrice_Defaults(t *testing.T) {
	t.Parallel()

	require.Equal(t, 232.5, BasePrice(Stocks, "AAPL"))
	require.Equal(t, 100.0, BasePrice(Stocks, "UNKNOWN"))
	require.Equal(t, 1.0, BasePrice(Forex, "XXX"))
}

func TestBasePrice_CoversEveryCatalogSymbol(t *testing.T) {
	t.Parallel()

	for _, class := range []Class{Stocks, ETFs, Metals, SoftCommodities} {
		for _, d := range Definitions(class) {
			_, ok := BasePrices[class][d.Symbol]
			require.True(t, ok, "%s %s has no reference price", class, d.Symbol)
		}
	}
	for _, d := range ForexList {
		if d.CryptoPair {
			continue
		}
		_, ok := BasePrices[Forex][d.Base]
		require.True(t, ok, "forex %s has no reference rate", d.Base)
	}
}

func TestQuote_Identity(t *testing.T) {
	t.Parallel()

	require.Equal(t, "bitcoin", Quote{ID: "bitcoin", Symbol: "BTC"}.Identity())
	require.Equal(t, "AAPL", Quote{Symbol: "AAPL"}.Identity())
	require.True(t, Quote{ID: "bitcoin", Symbol: "BTC"}.Is("BTC"))
	require.True(t, Quote{ID: "bitcoin", Symbol: "BTC"}.Is("bitcoin"))
	require.False(t, Quote{Symbol: "BTC"}.Is("bitcoin"))
}

func TestNewQuote_CarriesMetadataOnly(t *testing.T) {
	t.Parallel()

	q := MetalList[0].NewQuote()
	require.Equal(t, "XAU", q.Symbol)
	require.Equal(t, "oz", q.Unit)
	require.False(t, q.Loaded)
	require.Zero(t, q.Price)
	require.Nil(t, q.Pair)

	fx := ForexList[0].NewQuote()
	require.NotNil(t, fx.Pair)
	require.Equal(t, "EUR", fx.Pair.Base)
	require.False(t, math.Signbit(fx.Price))
}
