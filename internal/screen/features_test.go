package screen

import (
	"math"
	"testing"
	"time"

	"earnings-screener/internal/marketdata"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func seriesOf(closes ...float64) marketdata.PriceSeries {
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s := make(marketdata.PriceSeries, len(closes))
	for i, c := range closes {
		s[i] = marketdata.PricePoint{Date: base.AddDate(0, 0, i), Close: c}
	}
	return s
}

func TestPercentChange(t *testing.T) {
	if got := percentChange(100, 110); !almostEqual(got, 10) {
		t.Errorf("percentChange(100, 110) = %v, want 10", got)
	}
	if got := percentChange(200, 190); !almostEqual(got, -5) {
		t.Errorf("percentChange(200, 190) = %v, want -5", got)
	}
}

func TestPostEarningsMove(t *testing.T) {
	if move, ok := postEarningsMove(seriesOf(100, 105, 107)); !ok || !almostEqual(move, 5) {
		t.Errorf("postEarningsMove = (%v, %v), want (5, true)", move, ok)
	}
	if _, ok := postEarningsMove(seriesOf(100)); ok {
		t.Error("single-point window should be skipped")
	}
	if _, ok := postEarningsMove(nil); ok {
		t.Error("empty window should be skipped")
	}
	if _, ok := postEarningsMove(seriesOf(0, 105)); ok {
		t.Error("zero starting close should be skipped, not divided by")
	}
}

func TestPreEarningsRunup(t *testing.T) {
	if runup, ok := preEarningsRunup(seriesOf(100, 98, 103)); !ok || !almostEqual(runup, 3) {
		t.Errorf("preEarningsRunup = (%v, %v), want (3, true)", runup, ok)
	}
	if _, ok := preEarningsRunup(nil); ok {
		t.Error("empty window should be skipped")
	}
}

func TestAggregatePostMoves(t *testing.T) {
	avgAbs, winRate := aggregatePostMoves([]float64{3.0, -1.0, 2.0, -0.5})
	if !almostEqual(winRate, 50.0) {
		t.Errorf("winRate = %v, want 50.0", winRate)
	}
	if !almostEqual(avgAbs, 1.625) {
		t.Errorf("avgAbs = %v, want 1.625", avgAbs)
	}

	avgAbs, winRate = aggregatePostMoves(nil)
	if avgAbs != 0 || winRate != 0 {
		t.Errorf("empty moves = (%v, %v), want (0, 0)", avgAbs, winRate)
	}
}

func TestAggregatePreRunupsEmptyIsZero(t *testing.T) {
	// A ticker with no usable pre-earnings windows still screens; the
	// run-up feature just contributes nothing.
	if got := aggregatePreRunups(nil); got != 0 {
		t.Errorf("aggregatePreRunups(nil) = %v, want 0", got)
	}
	if got := aggregatePreRunups([]float64{2, 4}); !almostEqual(got, 3) {
		t.Errorf("aggregatePreRunups([2 4]) = %v, want 3", got)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		5.899999999: 5.9,
		1.005:       1.0, // float64 representation of 1.005 is just below it
		-2.345:      -2.35,
		0:           0,
	}
	for in, want := range cases {
		if got := round2(in); !almostEqual(got, want) {
			t.Errorf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestMoveScoreFormula(t *testing.T) {
	s := NewScorer(DefaultWeights())
	got := s.MoveScore(5.0, 10.0, 2.0)
	want := 5.0*0.5 + 10.0*0.3 + 2.0*0.2
	if !almostEqual(got, want) {
		t.Errorf("MoveScore(5, 10, 2) = %v, want %v", got, want)
	}
}

func TestMoveScoreCustomWeights(t *testing.T) {
	s := NewScorer(ScoringWeights{Historical: 1, Analyst: 0, Momentum: 0})
	if got := s.MoveScore(7.5, 99, 99); !almostEqual(got, 7.5) {
		t.Errorf("MoveScore with historical-only weights = %v, want 7.5", got)
	}
}

func TestNewScorerZeroWeightsFallsBack(t *testing.T) {
	s := NewScorer(ScoringWeights{})
	if got := s.MoveScore(10, 0, 0); !almostEqual(got, 5) {
		t.Errorf("zero-value weights should default to 0.5/0.3/0.2, got %v", got)
	}
}
