package interfaces

import (
	"context"

	"earnings-screener/internal/marketdata"
	"earnings-screener/internal/screen"
)

// Screener defines the interface for running one full screening pass
type Screener interface {
	// ScreenAndRank screens the candidates against the benchmark and
	// returns the ranked summary
	ScreenAndRank(ctx context.Context, candidates []marketdata.CandidateEarningsEvent, benchmark string) (*screen.ScanSummary, error)
}
