// Package screenobs wraps a Screener with logging and tracing middleware so
// the engine itself stays free of observability plumbing.
package screenobs

import (
	"context"
	"time"

	"earnings-screener/internal/interfaces"
	"earnings-screener/internal/logger"
	"earnings-screener/internal/marketdata"
	"earnings-screener/internal/screen"
	"earnings-screener/internal/trace"
)

// observableScreener wraps a Screener with logging and tracing
type observableScreener struct {
	inner interfaces.Screener
}

// Wrap wraps a Screener with observability middleware
func Wrap(s interfaces.Screener) interfaces.Screener {
	return &observableScreener{inner: s}
}

// ScreenAndRank wraps the ScreenAndRank method with logging and tracing
func (o *observableScreener) ScreenAndRank(ctx context.Context, candidates []marketdata.CandidateEarningsEvent, benchmark string) (*screen.ScanSummary, error) {
	ctx, span := trace.StartSpan(ctx, "screen.ScreenAndRank")
	defer span.End()

	logger.Info(ctx, "Starting earnings screen",
		"candidate_count", len(candidates),
		"benchmark", benchmark)
	start := time.Now()

	summary, err := o.inner.ScreenAndRank(ctx, candidates, benchmark)

	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		logger.ErrorWithErr(ctx, "Earnings screen failed", err,
			"duration_ms", duration.Milliseconds())
		return nil, err
	}

	fields := []any{
		"duration_ms", duration.Milliseconds(),
		"total_candidates", summary.TotalCandidates,
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
		"failed", summary.Failed,
	}
	if top, ok := summary.Top(); ok {
		fields = append(fields,
			"top_ticker", top.Ticker,
			"top_move_score", top.MoveScore)
	}
	logger.Info(ctx, "Earnings screen completed", fields...)

	return summary, nil
}
