package marketdata

import (
	"context"
	"math"
	"time"
)

// MockProvider serves deterministic synthetic market data for offline runs
// and testing. Prices are a pure function of (symbol, day), so overlapping
// window queries always agree with each other.
type MockProvider struct {
	now func() time.Time
}

// NewMockProvider creates a synthetic data provider
func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

// NewMockProviderAt creates a synthetic provider pinned to a fixed clock
func NewMockProviderAt(now func() time.Time) *MockProvider {
	return &MockProvider{now: now}
}

func symbolSeed(symbol string) int64 {
	var seed int64
	for _, c := range symbol {
		seed = seed*31 + int64(c)
	}
	if seed < 0 {
		seed = -seed
	}
	return seed
}

func (m *MockProvider) closeOn(symbol string, day time.Time) float64 {
	seed := symbolSeed(symbol)
	base := 40.0 + float64(seed%400)
	epoch := float64(day.Unix() / 86400)
	drift := 1.0 + 0.08*math.Sin(epoch/9.0+float64(seed%17)) + 0.03*math.Sin(epoch/3.0+float64(seed%5))
	return base * drift
}

// PriceSeries generates weekday closes for the requested window
func (m *MockProvider) PriceSeries(ctx context.Context, ticker string, start, end time.Time) (PriceSeries, error) {
	series := PriceSeries{}
	for d := truncateToDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		series = append(series, PricePoint{Date: d, Close: m.closeOn(ticker, d)})
	}
	return series, nil
}

// Fundamentals generates a complete snapshot; roughly a third of symbols
// land below the default market-cap floor so the quality filter has
// something to reject.
func (m *MockProvider) Fundamentals(ctx context.Context, ticker string) (*FundamentalsSnapshot, error) {
	seed := symbolSeed(ticker)
	name := ticker + " Inc."
	marketCap := 4_000_000_000.0 + float64(seed%30)*1_000_000_000.0
	current := m.closeOn(ticker, truncateToDay(m.now()))
	target := current * (1.0 + float64(seed%25)/100.0)
	fifty := current * 0.98
	twoHundred := current * 0.95

	return &FundamentalsSnapshot{
		CompanyName:          &name,
		MarketCap:            &marketCap,
		CurrentPrice:         &current,
		TargetMeanPrice:      &target,
		FiftyDayAverage:      &fifty,
		TwoHundredDayAverage: &twoHundred,
	}, nil
}

// EarningsHistory generates quarterly report dates ending about a month ago
func (m *MockProvider) EarningsHistory(ctx context.Context, ticker string, limit int) ([]time.Time, error) {
	seed := symbolSeed(ticker)
	latest := truncateToDay(m.now()).AddDate(0, 0, -30-int(seed%10))
	dates := make([]time.Time, 0, limit)
	for i := 0; i < limit; i++ {
		dates = append(dates, latest.AddDate(0, -3*i, 0))
	}
	return dates, nil
}

// UpcomingEarnings generates a fixed candidate slate reporting within the
// horizon
func (m *MockProvider) UpcomingEarnings(ctx context.Context, horizonDays int) ([]CandidateEarningsEvent, error) {
	symbols := []string{"AAPL", "MSFT", "NVDA", "AMD", "COST", "ORCL", "ADBE", "CRM"}
	today := truncateToDay(m.now())
	events := make([]CandidateEarningsEvent, 0, len(symbols))
	for i, sym := range symbols {
		offset := 1 + i%horizonDays
		events = append(events, CandidateEarningsEvent{
			Symbol:     sym,
			ReportDate: today.AddDate(0, 0, offset),
		})
	}
	return events, nil
}

// RecommendedPeers generates a stable peer list
func (m *MockProvider) RecommendedPeers(ctx context.Context, ticker string, max int) ([]string, error) {
	peers := []string{"SPY", "QQQ", "DIA"}
	if max < len(peers) {
		peers = peers[:max]
	}
	return peers, nil
}
