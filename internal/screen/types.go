package screen

import (
	"context"
	"errors"
	"time"

	"earnings-screener/internal/marketdata"
)

// PriceHistoryProvider supplies close-price series and a fundamentals
// snapshot for a ticker. Implementations are assumed network-bound and
// fallible; the engine treats a failure as "no data" for that ticker.
type PriceHistoryProvider interface {
	PriceSeries(ctx context.Context, ticker string, start, end time.Time) (marketdata.PriceSeries, error)
	Fundamentals(ctx context.Context, ticker string) (*marketdata.FundamentalsSnapshot, error)
}

// EarningsHistoryProvider supplies past earnings report dates for a ticker,
// most recent first.
type EarningsHistoryProvider interface {
	EarningsHistory(ctx context.Context, ticker string, limit int) ([]time.Time, error)
}

// ScoringWeights are the composite-score weights. They should sum to 1.0.
type ScoringWeights struct {
	Historical float64 `yaml:"historical"` // historical post-earnings volatility
	Analyst    float64 `yaml:"analyst"`    // analyst consensus upside
	Momentum   float64 `yaml:"momentum"`   // run-up relative to benchmark
}

// DefaultWeights returns the reference weighting: volatility is the primary
// predictor, analyst consensus secondary, relative momentum a minor signal.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{Historical: 0.5, Analyst: 0.3, Momentum: 0.2}
}

// Config holds screening thresholds and windows
type Config struct {
	MinMarketCap       float64
	MaxEarningsHistory int
	MomentumWindowDays int
	Workers            int
	Weights            ScoringWeights
}

// DefaultConfig returns the reference screening configuration
func DefaultConfig() Config {
	return Config{
		MinMarketCap:       10_000_000_000,
		MaxEarningsHistory: 8,
		MomentumWindowDays: 30,
		Workers:            1,
		Weights:            DefaultWeights(),
	}
}

// Result is the output record for one accepted ticker. All percentage and
// score fields are rounded to 2 decimal places at construction and the
// record is immutable thereafter.
type Result struct {
	Ticker                 string    `json:"ticker"`
	CompanyName            string    `json:"company_name"`
	EarningsDate           time.Time `json:"earnings_date"`
	MoveScore              float64   `json:"move_score"`
	AvgAbsPostMove         float64   `json:"avg_move"`
	WinRatePct             float64   `json:"win_rate"`
	AvgPreEarningsRunupPct float64   `json:"avg_pre_earnings_runup"`
	AnalystUpsidePct       float64   `json:"analyst_upside"`
	StockRunupPct          float64   `json:"stock_runup"`
}

// ScanSummary is the full outcome of one screening pass: the ranked results
// plus drop accounting, so a short ranking is never silently truncated.
type ScanSummary struct {
	GeneratedAt     time.Time `json:"generated_at"`
	Benchmark       string    `json:"benchmark"`
	BenchmarkRunup  float64   `json:"benchmark_runup"`
	TotalCandidates int       `json:"total_candidates"`
	Accepted        int       `json:"accepted"`
	Rejected        int       `json:"rejected"`
	Failed          int       `json:"failed"`
	Results         []Result  `json:"results"`
}

// RejectReason names the quality gate that rejected a ticker
type RejectReason string

const (
	RejectSymbolPattern    RejectReason = "symbol_pattern"
	RejectNoCompanyName    RejectReason = "company_name_missing"
	RejectNoMarketCap      RejectReason = "market_cap_missing"
	RejectMarketCapSmall   RejectReason = "market_cap_below_minimum"
	RejectNoTargetPrice    RejectReason = "target_price_missing"
	RejectNoEarningsDates  RejectReason = "no_earnings_history"
	RejectNoPostMoves      RejectReason = "no_post_earnings_moves"
	RejectNoCurrentPrice   RejectReason = "current_price_missing"
	RejectNoMomentumSeries RejectReason = "momentum_series_empty"
)

// ErrBenchmarkUnavailable signals that the benchmark run-up could not be
// computed. Without it relativeRunup is undefined for every candidate, so
// the scan cannot proceed; this is distinct from any per-ticker failure.
var ErrBenchmarkUnavailable = errors.New("benchmark price data unavailable")

// outcome is the typed per-ticker pipeline result the engine inspects to
// decide skip-vs-accept. Exactly one field is set.
type outcome struct {
	result *Result
	reject RejectReason
	err    error
}
