package marketdata

import "time"

// CandidateEarningsEvent is a ticker with a known upcoming earnings date,
// produced by the calendar source. One per ticker per scan.
type CandidateEarningsEvent struct {
	Symbol     string    `json:"symbol"`
	ReportDate time.Time `json:"report_date"`
}

// PricePoint is a single daily close observation
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a chronological sequence of close prices for one ticker.
// An empty series is a valid result (no trading data in the window), not an
// error.
type PriceSeries []PricePoint

// First returns the earliest point in the series
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[0], true
}

// Last returns the latest point in the series
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// FundamentalsSnapshot is a point-in-time view of a ticker's fundamentals.
// Every field may be absent from the upstream payload; nil means missing,
// which is distinct from zero.
type FundamentalsSnapshot struct {
	CompanyName          *string  `json:"company_name,omitempty"`
	MarketCap            *float64 `json:"market_cap,omitempty"`
	CurrentPrice         *float64 `json:"current_price,omitempty"`
	TargetMeanPrice      *float64 `json:"target_mean_price,omitempty"`
	FiftyDayAverage      *float64 `json:"fifty_day_average,omitempty"`
	TwoHundredDayAverage *float64 `json:"two_hundred_day_average,omitempty"`
}
