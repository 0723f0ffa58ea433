package screen

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"earnings-screener/internal/logger"
	"earnings-screener/internal/marketdata"
)

// Engine orchestrates the quality filter, feature extraction, and scoring
// over a batch of candidates, then ranks the survivors. Per-ticker failures
// are contained here; only benchmark acquisition failure propagates.
type Engine struct {
	cfg      Config
	prices   PriceHistoryProvider
	earnings EarningsHistoryProvider
	scorer   *Scorer
	now      func() time.Time
}

// New creates a screening engine
func New(cfg Config, prices PriceHistoryProvider, earnings EarningsHistoryProvider) *Engine {
	if cfg.MaxEarningsHistory == 0 {
		cfg.MaxEarningsHistory = DefaultConfig().MaxEarningsHistory
	}
	if cfg.MomentumWindowDays == 0 {
		cfg.MomentumWindowDays = DefaultConfig().MomentumWindowDays
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Engine{
		cfg:      cfg,
		prices:   prices,
		earnings: earnings,
		scorer:   NewScorer(cfg.Weights),
		now:      time.Now,
	}
}

// ScreenAndRank screens every candidate in input order and returns the
// accepted results ranked by move score, descending. Ties keep original
// candidate order. An empty candidate list or a fully-rejected batch yields
// an empty ranking, not an error; the caller decides whether that is fatal.
func (e *Engine) ScreenAndRank(ctx context.Context, candidates []marketdata.CandidateEarningsEvent, benchmark string) (*ScanSummary, error) {
	// The benchmark run-up is computed exactly once, before any ticker
	// work, and shared read-only across the batch.
	benchmarkRunup, err := e.momentumRunup(ctx, benchmark)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBenchmarkUnavailable, benchmark, err)
	}

	logger.Info(ctx, "Screening candidates",
		"count", len(candidates),
		"benchmark", benchmark,
		"benchmark_runup", round2(benchmarkRunup),
		"workers", e.cfg.Workers)

	outcomes := make([]outcome, len(candidates))
	if e.cfg.Workers <= 1 {
		for i, cand := range candidates {
			outcomes[i] = e.screenTicker(ctx, cand, benchmarkRunup)
		}
	} else {
		e.screenParallel(ctx, candidates, benchmarkRunup, outcomes)
	}

	summary := &ScanSummary{
		GeneratedAt:     e.now(),
		Benchmark:       benchmark,
		BenchmarkRunup:  round2(benchmarkRunup),
		TotalCandidates: len(candidates),
		Results:         make([]Result, 0, len(candidates)),
	}

	for i, o := range outcomes {
		switch {
		case o.err != nil:
			summary.Failed++
			logger.Warn(ctx, "Skipping ticker after fetch failure",
				"ticker", candidates[i].Symbol, "error", o.err)
		case o.reject != "":
			summary.Rejected++
			logger.TickerRejected(ctx, candidates[i].Symbol, string(o.reject))
		default:
			summary.Results = append(summary.Results, *o.result)
			logger.TickerQualified(ctx, o.result.Ticker, o.result.CompanyName, o.result.MoveScore)
		}
	}
	summary.Accepted = len(summary.Results)

	// Stable sort preserves input order for equal scores
	sort.SliceStable(summary.Results, func(i, j int) bool {
		return summary.Results[i].MoveScore > summary.Results[j].MoveScore
	})

	logger.Info(ctx, "Screening completed",
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
		"failed", summary.Failed)

	return summary, nil
}

// screenParallel fans candidates out to a bounded worker pool. Each worker
// writes only its own outcome slot, so collection order (and therefore the
// ranking tie-break) stays tied to the original candidate order regardless
// of completion order.
func (e *Engine) screenParallel(ctx context.Context, candidates []marketdata.CandidateEarningsEvent, benchmarkRunup float64, outcomes []outcome) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = e.screenTicker(ctx, candidates[i], benchmarkRunup)
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// screenTicker runs the full per-ticker pipeline: gates interleaved with
// fetches in the fixed cheapest-first order, then feature extraction and
// scoring. It never panics or aborts the batch; every exit is a typed
// outcome.
func (e *Engine) screenTicker(ctx context.Context, cand marketdata.CandidateEarningsEvent, benchmarkRunup float64) outcome {
	if reason, ok := checkSymbol(cand.Symbol); !ok {
		return outcome{reject: reason}
	}

	fund, err := e.prices.Fundamentals(ctx, cand.Symbol)
	if err != nil {
		return outcome{err: fmt.Errorf("fundamentals: %w", err)}
	}
	if reason, ok := checkFundamentals(fund, e.cfg.MinMarketCap); !ok {
		return outcome{reject: reason}
	}

	reportDates, err := e.earnings.EarningsHistory(ctx, cand.Symbol, e.cfg.MaxEarningsHistory)
	if err != nil {
		return outcome{err: fmt.Errorf("earnings history: %w", err)}
	}
	if len(reportDates) == 0 {
		return outcome{reject: RejectNoEarningsDates}
	}

	postMoves := make([]float64, 0, len(reportDates))
	preRunups := make([]float64, 0, len(reportDates))
	for _, d := range reportDates {
		postWindow, err := e.prices.PriceSeries(ctx, cand.Symbol, d.AddDate(0, 0, -1), d.AddDate(0, 0, 2))
		if err != nil {
			return outcome{err: fmt.Errorf("post-earnings window %s: %w", d.Format("2006-01-02"), err)}
		}
		if move, ok := postEarningsMove(postWindow); ok {
			postMoves = append(postMoves, move)
		}

		preWindow, err := e.prices.PriceSeries(ctx, cand.Symbol, d.AddDate(0, 0, -e.cfg.MomentumWindowDays), d)
		if err != nil {
			return outcome{err: fmt.Errorf("pre-earnings window %s: %w", d.Format("2006-01-02"), err)}
		}
		if runup, ok := preEarningsRunup(preWindow); ok {
			preRunups = append(preRunups, runup)
		}
	}
	if len(postMoves) == 0 {
		return outcome{reject: RejectNoPostMoves}
	}

	if reason, ok := checkCurrentPrice(fund); !ok {
		return outcome{reject: reason}
	}

	stockRunup, err := e.momentumRunupOutcome(ctx, cand.Symbol)
	if err != nil {
		return outcome{err: err}
	}
	if stockRunup == nil {
		return outcome{reject: RejectNoMomentumSeries}
	}

	avgAbsMove, winRate := aggregatePostMoves(postMoves)
	avgPreRunup := aggregatePreRunups(preRunups)
	analystUpside := percentChange(*fund.CurrentPrice, *fund.TargetMeanPrice)
	relativeRunup := math.Abs(*stockRunup - benchmarkRunup)

	score := e.scorer.MoveScore(avgAbsMove, analystUpside, relativeRunup)

	return outcome{result: &Result{
		Ticker:                 cand.Symbol,
		CompanyName:            *fund.CompanyName,
		EarningsDate:           cand.ReportDate,
		MoveScore:              round2(score),
		AvgAbsPostMove:         round2(avgAbsMove),
		WinRatePct:             round2(winRate),
		AvgPreEarningsRunupPct: round2(avgPreRunup),
		AnalystUpsidePct:       round2(analystUpside),
		StockRunupPct:          round2(*stockRunup),
	}}
}

// momentumRunup computes the percent change over the trailing momentum
// window, failing when no usable series exists. Used for the benchmark,
// where absence is fatal to the scan.
func (e *Engine) momentumRunup(ctx context.Context, ticker string) (float64, error) {
	end := e.now()
	start := end.AddDate(0, 0, -e.cfg.MomentumWindowDays)
	series, err := e.prices.PriceSeries(ctx, ticker, start, end)
	if err != nil {
		return 0, err
	}
	runup, ok := seriesRunup(series)
	if !ok {
		return 0, fmt.Errorf("no price data in trailing %d days", e.cfg.MomentumWindowDays)
	}
	return runup, nil
}

// momentumRunupOutcome is the per-ticker variant: a fetch error propagates
// as a failure, an empty series as nil (gate 8 rejection).
func (e *Engine) momentumRunupOutcome(ctx context.Context, ticker string) (*float64, error) {
	end := e.now()
	start := end.AddDate(0, 0, -e.cfg.MomentumWindowDays)
	series, err := e.prices.PriceSeries(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("momentum window: %w", err)
	}
	runup, ok := seriesRunup(series)
	if !ok {
		return nil, nil
	}
	return &runup, nil
}

// Top returns the top contender, if any
func (s *ScanSummary) Top() (Result, bool) {
	if len(s.Results) == 0 {
		return Result{}, false
	}
	return s.Results[0], true
}
