package asset

// Definition is one catalog entry: identity and presentation metadata for a
// tracked asset. Prices come from providers, never from here.
type Definition struct {
	ID     string
	Symbol string
	Name   string
	Color  string
	Unit   string

	// Forex-only fields.
	Base       string
	Target     string
	Inverse    bool
	CryptoPair bool
}

// NewQuote returns an unpriced quote carrying the definition's metadata.
func (d Definition) NewQuote() Quote {
	q := Quote{
		ID:     d.ID,
		Symbol: d.Symbol,
		Name:   d.Name,
		Color:  d.Color,
		Unit:   d.Unit,
	}
	if d.Base != "" {
		q.Pair = &PairInfo{
			Base:       d.Base,
			Target:     d.Target,
			Inverse:    d.Inverse,
			CryptoPair: d.CryptoPair,
		}
	}
	return q
}

// Coins tracked via the crypto provider, keyed by provider id.
var Coins = []Definition{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Color: "#f7931a"},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", Color: "#627eea"},
	{ID: "solana", Symbol: "SOL", Name: "Solana", Color: "#00ffa3"},
	{ID: "cardano", Symbol: "ADA", Name: "Cardano", Color: "#0033ad"},
	{ID: "ripple", Symbol: "XRP", Name: "Ripple", Color: "#00aae4"},
	{ID: "polkadot", Symbol: "DOT", Name: "Polkadot", Color: "#e6007a"},
	{ID: "binancecoin", Symbol: "BNB", Name: "BNB", Color: "#f3ba2f"},
	{ID: "avalanche-2", Symbol: "AVAX", Name: "Avalanche", Color: "#e84142"},
	{ID: "chainlink", Symbol: "LINK", Name: "Chainlink", Color: "#2a5ada"},
	{ID: "uniswap", Symbol: "UNI", Name: "Uniswap", Color: "#ff007a"},
	{ID: "litecoin", Symbol: "LTC", Name: "Litecoin", Color: "#bfbbbb"},
	{ID: "dogecoin", Symbol: "DOGE", Name: "Dogecoin", Color: "#c2a633"},
	{ID: "shiba-inu", Symbol: "SHIB", Name: "Shiba Inu", Color: "#fda32b"},
}

// StockList tracked via the equities provider.
var StockList = []Definition{
	{Symbol: "AAPL", Name: "Apple", Color: "#a2aaad"},
	{Symbol: "MSFT", Name: "Microsoft", Color: "#00a4ef"},
	{Symbol: "NVDA", Name: "NVIDIA", Color: "#76b900"},
	{Symbol: "GOOGL", Name: "Alphabet", Color: "#4285f4"},
	{Symbol: "AMZN", Name: "Amazon", Color: "#ff9900"},
	{Symbol: "TSLA", Name: "Tesla", Color: "#cc0000"},
	{Symbol: "META", Name: "Meta", Color: "#0668e1"},
	{Symbol: "AMD", Name: "AMD", Color: "#ed1c24"},
	{Symbol: "INTC", Name: "Intel", Color: "#0071c5"},
	{Symbol: "CRM", Name: "Salesforce", Color: "#00a1e0"},
	{Symbol: "NFLX", Name: "Netflix", Color: "#e50914"},
	{Symbol: "PYPL", Name: "PayPal", Color: "#003087"},
}

// ETFList tracked via the equities provider.
var ETFList = []Definition{
	{Symbol: "SPY", Name: "S&P 500 ETF", Color: "#ff6b6b"},
	{Symbol: "QQQ", Name: "Nasdaq 100 ETF", Color: "#4ecdc4"},
	{Symbol: "VTI", Name: "Total Stock Market", Color: "#45b7d1"},
	{Symbol: "IWM", Name: "Russell 2000", Color: "#96ceb4"},
	{Symbol: "EEM", Name: "Emerging Markets", Color: "#ffeaa7"},
	{Symbol: "GLD", Name: "Gold ETF", Color: "#ffd700"},
	{Symbol: "TLT", Name: "20+ Year Treasury", Color: "#a29bfe"},
	{Symbol: "VNQ", Name: "Real Estate ETF", Color: "#fd79a8"},
}

// MetalList tracked via the metals provider.
var MetalList = []Definition{
	{Symbol: "XAU", Name: "Gold", Unit: "oz", Color: "#ffd700"},
	{Symbol: "XAG", Name: "Silver", Unit: "oz", Color: "#c0c0c0"},
	{Symbol: "XPT", Name: "Platinum", Unit: "oz", Color: "#e5e4e2"},
}

// SoftList has no free live source and is always served synthetically.
var SoftList = []Definition{
	{Symbol: "COCOA", Name: "Cocoa", Unit: "MT", Color: "#5c3317"},
	{Symbol: "COFFEE", Name: "Coffee", Unit: "lb", Color: "#6f4e37"},
	{Symbol: "SUGAR", Name: "Sugar", Unit: "lb", Color: "#f5f5dc"},
	{Symbol: "WHEAT", Name: "Wheat", Unit: "bu", Color: "#f5deb3"},
	{Symbol: "CORN", Name: "Corn", Unit: "bu", Color: "#fbec5d"},
	{Symbol: "COTTON", Name: "Cotton", Unit: "lb", Color: "#fffaf0"},
}

// ForexList tracked via the forex provider. All pairs are quoted against USD;
// Inverse marks currencies the convention displays inverted relative to the
// provider's USD-base publication.
var ForexList = []Definition{
	{Base: "EUR", Target: "USD", Symbol: "EUR", Name: "Euro", Color: "#0052b4"},
	{Base: "GBP", Target: "USD", Symbol: "GBP", Name: "British Pound", Color: "#c8102e"},
	{Base: "CHF", Target: "USD", Symbol: "CHF", Name: "Swiss Franc", Color: "#d52b1e"},

	{Base: "JPY", Target: "USD", Symbol: "JPY", Name: "Japanese Yen", Color: "#bc002d", Inverse: true},
	{Base: "CNY", Target: "USD", Symbol: "CNY", Name: "Chinese Yuan", Color: "#de2910", Inverse: true},
	{Base: "HKD", Target: "USD", Symbol: "HKD", Name: "Hong Kong Dollar", Color: "#de2910", Inverse: true},
	{Base: "KRW", Target: "USD", Symbol: "KRW", Name: "South Korean Won", Color: "#003478", Inverse: true},

	{Base: "SGD", Target: "USD", Symbol: "SGD", Name: "Singapore Dollar", Color: "#ef3340"},
	{Base: "MYR", Target: "USD", Symbol: "MYR", Name: "Malaysian Ringgit", Color: "#010066", Inverse: true},
	{Base: "THB", Target: "USD", Symbol: "THB", Name: "Thai Baht", Color: "#2d2a4a", Inverse: true},
	{Base: "IDR", Target: "USD", Symbol: "IDR", Name: "Indonesian Rupiah", Color: "#ce1126", Inverse: true},
	{Base: "PHP", Target: "USD", Symbol: "PHP", Name: "Philippine Peso", Color: "#0038a8", Inverse: true},

	{Base: "INR", Target: "USD", Symbol: "INR", Name: "Indian Rupee", Color: "#ff9933", Inverse: true},
	{Base: "PKR", Target: "USD", Symbol: "PKR", Name: "Pakistani Rupee", Color: "#01411c", Inverse: true},

	{Base: "KWD", Target: "USD", Symbol: "KWD", Name: "Kuwaiti Dinar", Color: "#007a3d"},
	{Base: "BHD", Target: "USD", Symbol: "BHD", Name: "Bahraini Dinar", Color: "#ce1126"},
	{Base: "OMR", Target: "USD", Symbol: "OMR", Name: "Omani Rial", Color: "#db161b"},
	{Base: "JOD", Target: "USD", Symbol: "JOD", Name: "Jordanian Dinar", Color: "#007a3d"},
	{Base: "AED", Target: "USD", Symbol: "AED", Name: "UAE Dirham", Color: "#00732f", Inverse: true},
	{Base: "SAR", Target: "USD", Symbol: "SAR", Name: "Saudi Riyal", Color: "#006c35", Inverse: true},
	{Base: "QAR", Target: "USD", Symbol: "QAR", Name: "Qatari Riyal", Color: "#8d1b3d", Inverse: true},
	{Base: "EGP", Target: "USD", Symbol: "EGP", Name: "Egyptian Pound", Color: "#ce1126", Inverse: true},
	{Base: "ILS", Target: "USD", Symbol: "ILS", Name: "Israeli Shekel", Color: "#0038b8", Inverse: true},

	{Base: "SEK", Target: "USD", Symbol: "SEK", Name: "Swedish Krona", Color: "#006aa7", Inverse: true},
	{Base: "NOK", Target: "USD", Symbol: "NOK", Name: "Norwegian Krone", Color: "#ba0c2f", Inverse: true},
	{Base: "DKK", Target: "USD", Symbol: "DKK", Name: "Danish Krone", Color: "#c8102e", Inverse: true},
	{Base: "PLN", Target: "USD", Symbol: "PLN", Name: "Polish Zloty", Color: "#dc143c", Inverse: true},
	{Base: "CZK", Target: "USD", Symbol: "CZK", Name: "Czech Koruna", Color: "#11457e", Inverse: true},
	{Base: "HUF", Target: "USD", Symbol: "HUF", Name: "Hungarian Forint", Color: "#436f4d", Inverse: true},
	{Base: "TRY", Target: "USD", Symbol: "TRY", Name: "Turkish Lira", Color: "#e30a17", Inverse: true},
	{Base: "RUB", Target: "USD", Symbol: "RUB", Name: "Russian Ruble", Color: "#0039a6", Inverse: true},

	{Base: "CAD", Target: "USD", Symbol: "CAD", Name: "Canadian Dollar", Color: "#ff0000"},
	{Base: "MXN", Target: "USD", Symbol: "MXN", Name: "Mexican Peso", Color: "#006847", Inverse: true},
	{Base: "BRL", Target: "USD", Symbol: "BRL", Name: "Brazilian Real", Color: "#009c3b", Inverse: true},

	{Base: "AUD", Target: "USD", Symbol: "AUD", Name: "Australian Dollar", Color: "#00008b"},
	{Base: "NZD", Target: "USD", Symbol: "NZD", Name: "New Zealand Dollar", Color: "#00247d"},
	{Base: "ZAR", Target: "USD", Symbol: "ZAR", Name: "South African Rand", Color: "#007a4d", Inverse: true},

	{Base: "BTC", Target: "USD", Symbol: "BTC", Name: "Bitcoin", Color: "#f7931a", CryptoPair: true},
}

// BasePrices are the static reference values backing synthetic quotes
// (January 2025 levels). A symbol absent from its table defaults to 100
// except forex, which defaults to 1.
var BasePrices = map[Class]map[string]float64{
	Stocks: {
		"AAPL": 232.5, "MSFT": 425.8, "NVDA": 138.5, "GOOGL": 193.2,
		"AMZN": 225.4, "TSLA": 410.5, "META": 595.0, "AMD": 125.0,
		"INTC": 22.5, "CRM": 340.0, "NFLX": 920.0, "PYPL": 90.0,
	},
	ETFs: {
		"SPY": 595.0, "QQQ": 520.0, "VTI": 285.0, "IWM": 225.0,
		"EEM": 42.0, "GLD": 245.0, "TLT": 88.0, "VNQ": 92.0,
	},
	Metals: {
		"XAU": 2650.0, "XAG": 31.5, "XPT": 980.0,
	},
	SoftCommodities: {
		"COCOA": 9500.0, "COFFEE": 3.25, "SUGAR": 0.21,
		"WHEAT": 5.45, "CORN": 4.35, "COTTON": 0.72,
	},
	Forex: {
		"EUR": 1.08, "GBP": 1.27, "CHF": 1.13,
		"JPY": 0.0067, "CNY": 0.14, "HKD": 0.128, "KRW": 0.00072,
		"SGD": 0.74, "MYR": 0.22, "THB": 0.029, "IDR": 0.000063, "PHP": 0.018,
		"INR": 0.012, "PKR": 0.0036,
		"KWD": 3.26, "BHD": 2.65, "OMR": 2.60, "JOD": 1.41,
		"AED": 0.27, "SAR": 0.27, "QAR": 0.27, "EGP": 0.020, "ILS": 0.27,
		"SEK": 0.094, "NOK": 0.089, "DKK": 0.145, "PLN": 0.245,
		"CZK": 0.042, "HUF": 0.0027, "TRY": 0.029, "RUB": 0.010,
		"CAD": 0.74, "MXN": 0.050, "BRL": 0.17,
		"AUD": 0.65, "NZD": 0.62, "ZAR": 0.055,
	},
}

// BasePrice returns the reference price for a symbol, falling back to the
// class default when the table has no entry.
func BasePrice(class Class, symbol string) float64 {
	if v, ok := BasePrices[class][symbol]; ok {
		return v
	}
	if class == Forex {
		return 1
	}
	return 100
}

// Definitions returns the catalog for a class.
func Definitions(class Class) []Definition {
	switch class {
	case Crypto:
		return Coins
	case Stocks:
		return StockList
	case ETFs:
		return ETFList
	case Metals:
		return MetalList
	case SoftCommodities:
		return SoftList
	case Forex:
		return ForexList
	}
	return nil
}
