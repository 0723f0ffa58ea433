package interfaces

import (
	"context"

	"earnings-screener/internal/marketdata"
)

// EarningsCalendar supplies candidate earnings events inside a horizon
type EarningsCalendar interface {
	// UpcomingEarnings returns events with report dates within the next
	// horizonDays days, inclusive of today
	UpcomingEarnings(ctx context.Context, horizonDays int) ([]marketdata.CandidateEarningsEvent, error)
}
