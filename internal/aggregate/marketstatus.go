package aggregate

import "time"

// TradingPhase of one exchange at a point in time.
type TradingPhase string

const (
	PhaseOpen       TradingPhase = "open"
	PhasePreMarket  TradingPhase = "pre-market"
	PhaseAfterHours TradingPhase = "after-hours"
	PhaseClosed     TradingPhase = "closed"
	PhaseWeekend    TradingPhase = "weekend"
	PhaseHoliday    TradingPhase = "holiday"
)

// MarketStatus reports the trading phase of the venues backing the tracked
// classes: NYSE for stocks and ETFs, XETRA for the European session, and the
// crypto market, which never closes.
type MarketStatus struct {
	NYSE   TradingPhase `json:"nyse"`
	XETRA  TradingPhase `json:"xetra"`
	Crypto TradingPhase `json:"crypto"`
}

// session is one exchange's trading day in local decimal hours. Pre-market
// runs [preStart, regStart), regular [regStart, regEnd), after-hours
// [regEnd, afterEnd).
type session struct {
	tz       string
	preStart float64
	regStart float64
	regEnd   float64
	afterEnd float64
}

var (
	nyse  = session{tz: "America/New_York", preStart: 4, regStart: 9.5, regEnd: 16, afterEnd: 20}
	xetra = session{tz: "Europe/Berlin", preStart: 8, regStart: 9, regEnd: 17.5, afterEnd: 22}
)

// usHolidays are NYSE full-day closures. Exchange-published dates; extend
// when the next year's calendar is announced.
var usHolidays = map[string]bool{
	"2025-01-01": true, // New Year's Day
	"2025-01-20": true, // Martin Luther King Jr. Day
	"2025-02-17": true, // Washington's Birthday
	"2025-04-18": true, // Good Friday
	"2025-05-26": true, // Memorial Day
	"2025-06-19": true, // Juneteenth
	"2025-07-04": true, // Independence Day
	"2025-09-01": true, // Labor Day
	"2025-11-27": true, // Thanksgiving
	"2025-12-25": true, // Christmas
}

// StatusAt computes the per-exchange trading phase at the given instant.
func StatusAt(now time.Time) MarketStatus {
	return MarketStatus{
		NYSE:   nyse.phase(now, usHolidays),
		XETRA:  xetra.phase(now, nil),
		Crypto: PhaseOpen,
	}
}

func (s session) phase(now time.Time, holidays map[string]bool) TradingPhase {
	loc, err := time.LoadLocation(s.tz)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return PhaseWeekend
	}
	if holidays[local.Format("2006-01-02")] {
		return PhaseHoliday
	}
	h := float64(local.Hour()) + float64(local.Minute())/60
	switch {
	case h >= s.regStart && h < s.regEnd:
		return PhaseOpen
	case h >= s.preStart && h < s.regStart:
		return PhasePreMarket
	case h >= s.regEnd && h < s.afterEnd:
		return PhaseAfterHours
	default:
		return PhaseClosed
	}
}
