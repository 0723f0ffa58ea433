package screen

import (
	"math"

	"earnings-screener/internal/marketdata"
)

// percentChange computes (end-start)/start*100. The caller guarantees a
// non-zero start or skips the computation.
func percentChange(start, end float64) float64 {
	return (end - start) / start * 100
}

// postEarningsMove computes the percent move across an announcement from a
// [d-1d, d+2d] window: the change from the point immediately before the
// report to the point immediately after. Windows with fewer than two points
// (market holidays, sparse history) are skipped, not errors.
func postEarningsMove(window marketdata.PriceSeries) (float64, bool) {
	if len(window) < 2 || window[0].Close == 0 {
		return 0, false
	}
	return percentChange(window[0].Close, window[1].Close), true
}

// preEarningsRunup computes the percent change across a [d-30d, d] window
func preEarningsRunup(window marketdata.PriceSeries) (float64, bool) {
	if len(window) == 0 || window[0].Close == 0 {
		return 0, false
	}
	first, _ := window.First()
	last, _ := window.Last()
	return percentChange(first.Close, last.Close), true
}

// seriesRunup computes the percent change over a full momentum window
func seriesRunup(series marketdata.PriceSeries) (float64, bool) {
	return preEarningsRunup(series)
}

// aggregatePostMoves folds individual post-earnings moves into the average
// absolute move and the win rate
func aggregatePostMoves(moves []float64) (avgAbs, winRatePct float64) {
	if len(moves) == 0 {
		return 0, 0
	}
	var absSum float64
	var wins int
	for _, m := range moves {
		absSum += math.Abs(m)
		if m > 0 {
			wins++
		}
	}
	return absSum / float64(len(moves)), float64(wins) / float64(len(moves)) * 100
}

// aggregatePreRunups averages the pre-earnings run-ups. An empty set
// contributes 0 rather than rejecting the ticker: run-up absence is not
// fatal, post-move absence is. Intentional asymmetry, do not unify.
func aggregatePreRunups(runups []float64) float64 {
	if len(runups) == 0 {
		return 0
	}
	var sum float64
	for _, r := range runups {
		sum += r
	}
	return sum / float64(len(runups))
}

// round2 rounds to 2 decimal places for the published result shape
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
