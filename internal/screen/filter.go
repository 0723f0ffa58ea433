package screen

import (
	"regexp"

	"earnings-screener/internal/marketdata"
)

// Standard listed tickers are 1-5 uppercase letters; anything else is an
// OTC or non-standard listing and gets rejected before any fetch.
var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// checkSymbol is gate 1: ticker shape. It runs before any network call.
func checkSymbol(symbol string) (RejectReason, bool) {
	if !symbolPattern.MatchString(symbol) {
		return RejectSymbolPattern, false
	}
	return "", true
}

// checkFundamentals applies gates 2-4 in order: display name, market-cap
// floor, analyst target presence.
func checkFundamentals(f *marketdata.FundamentalsSnapshot, minMarketCap float64) (RejectReason, bool) {
	if f.CompanyName == nil || *f.CompanyName == "" {
		return RejectNoCompanyName, false
	}
	if f.MarketCap == nil {
		return RejectNoMarketCap, false
	}
	if *f.MarketCap < minMarketCap {
		return RejectMarketCapSmall, false
	}
	if f.TargetMeanPrice == nil {
		return RejectNoTargetPrice, false
	}
	return "", true
}

// checkCurrentPrice is gate 7. It also guards the analyst-upside division:
// a zero current price is treated as missing.
func checkCurrentPrice(f *marketdata.FundamentalsSnapshot) (RejectReason, bool) {
	if f.CurrentPrice == nil || *f.CurrentPrice == 0 {
		return RejectNoCurrentPrice, false
	}
	return "", true
}
