package screen

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"earnings-screener/internal/marketdata"
)

// fakeMarket serves canned per-ticker data keyed by the window being asked
// for. Post-earnings windows are a few days wide; momentum windows end near
// the current wall clock; every other range is a pre-earnings window.
type fakeMarket struct {
	fundamentals map[string]*marketdata.FundamentalsSnapshot
	earnings     map[string][]time.Time
	post         map[string]marketdata.PriceSeries
	pre          map[string]marketdata.PriceSeries
	momentum     map[string]marketdata.PriceSeries
	fundErr      map[string]error
	seriesErr    map[string]error
}

func (f *fakeMarket) Fundamentals(_ context.Context, ticker string) (*marketdata.FundamentalsSnapshot, error) {
	if err := f.fundErr[ticker]; err != nil {
		return nil, err
	}
	fund, ok := f.fundamentals[ticker]
	if !ok {
		return nil, fmt.Errorf("no fundamentals fixture for %s", ticker)
	}
	return fund, nil
}

func (f *fakeMarket) PriceSeries(_ context.Context, ticker string, start, end time.Time) (marketdata.PriceSeries, error) {
	if err := f.seriesErr[ticker]; err != nil {
		return nil, err
	}
	if end.Sub(start) < 7*24*time.Hour {
		return f.post[ticker], nil
	}
	if time.Since(end) < 48*time.Hour {
		return f.momentum[ticker], nil
	}
	return f.pre[ticker], nil
}

func (f *fakeMarket) EarningsHistory(_ context.Context, ticker string, limit int) ([]time.Time, error) {
	dates := f.earnings[ticker]
	if len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func pastDate(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// goodFundamentals passes every fundamentals gate: current 100, target 110
// gives a 10% analyst upside.
func goodFundamentals(name string) *marketdata.FundamentalsSnapshot {
	return &marketdata.FundamentalsSnapshot{
		CompanyName:     strPtr(name),
		MarketCap:       f64Ptr(50_000_000_000),
		CurrentPrice:    f64Ptr(100),
		TargetMeanPrice: f64Ptr(110),
	}
}

// addGoodTicker installs a fully-passing fixture: post move +5% (avg abs 5,
// win rate 100), pre run-up +2%, momentum run-up +3%. Against a benchmark
// run-up of +1% that is a relative run-up of 2 and a move score of
// 5*0.5 + 10*0.3 + 2*0.2 = 5.9.
func (f *fakeMarket) addGoodTicker(ticker string) {
	f.fundamentals[ticker] = goodFundamentals(ticker + " Corp")
	f.earnings[ticker] = []time.Time{pastDate(2024, 2, 1)}
	f.post[ticker] = seriesOf(100, 105)
	f.pre[ticker] = seriesOf(100, 102)
	f.momentum[ticker] = seriesOf(100, 103)
}

func newFakeMarket() *fakeMarket {
	f := &fakeMarket{
		fundamentals: map[string]*marketdata.FundamentalsSnapshot{},
		earnings:     map[string][]time.Time{},
		post:         map[string]marketdata.PriceSeries{},
		pre:          map[string]marketdata.PriceSeries{},
		momentum:     map[string]marketdata.PriceSeries{},
		fundErr:      map[string]error{},
		seriesErr:    map[string]error{},
	}
	f.momentum["SPY"] = seriesOf(100, 101)
	return f
}

func candidatesFor(tickers ...string) []marketdata.CandidateEarningsEvent {
	out := make([]marketdata.CandidateEarningsEvent, len(tickers))
	for i, t := range tickers {
		out[i] = marketdata.CandidateEarningsEvent{
			Symbol:     t,
			ReportDate: pastDate(2024, 5, 1).AddDate(0, 0, i),
		}
	}
	return out
}

func TestScreenAndRankEndToEnd(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	// BBB is identical except its market cap sits below the floor.
	market.addGoodTicker("BBB")
	market.fundamentals["BBB"].MarketCap = f64Ptr(5_000_000_000)

	engine := New(DefaultConfig(), market, market)
	summary, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA", "BBB"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}

	if len(summary.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(summary.Results))
	}
	r := summary.Results[0]
	if r.Ticker != "AAA" {
		t.Errorf("top ticker = %s, want AAA", r.Ticker)
	}
	if r.MoveScore != 5.9 {
		t.Errorf("MoveScore = %v, want 5.9", r.MoveScore)
	}
	if r.AvgAbsPostMove != 5.0 {
		t.Errorf("AvgAbsPostMove = %v, want 5.0", r.AvgAbsPostMove)
	}
	if r.WinRatePct != 100.0 {
		t.Errorf("WinRatePct = %v, want 100.0", r.WinRatePct)
	}
	if r.AvgPreEarningsRunupPct != 2.0 {
		t.Errorf("AvgPreEarningsRunupPct = %v, want 2.0", r.AvgPreEarningsRunupPct)
	}
	if r.AnalystUpsidePct != 10.0 {
		t.Errorf("AnalystUpsidePct = %v, want 10.0", r.AnalystUpsidePct)
	}
	if r.StockRunupPct != 3.0 {
		t.Errorf("StockRunupPct = %v, want 3.0", r.StockRunupPct)
	}
	if summary.Accepted != 1 || summary.Rejected != 1 || summary.Failed != 0 {
		t.Errorf("accounting = %d/%d/%d, want 1/1/0",
			summary.Accepted, summary.Rejected, summary.Failed)
	}
	if summary.BenchmarkRunup != 1.0 {
		t.Errorf("BenchmarkRunup = %v, want 1.0", summary.BenchmarkRunup)
	}
}

func TestScreenAndRankOrderingStability(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	market.addGoodTicker("CCC")
	market.addGoodTicker("BBB")

	engine := New(DefaultConfig(), market, market)
	summary, err := engine.ScreenAndRank(context.Background(), candidatesFor("CCC", "AAA", "BBB"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}

	// All three score identically, so the ranking must mirror input order.
	want := []string{"CCC", "AAA", "BBB"}
	if len(summary.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(summary.Results), len(want))
	}
	for i, w := range want {
		if summary.Results[i].Ticker != w {
			t.Errorf("rank %d = %s, want %s", i, summary.Results[i].Ticker, w)
		}
	}
}

func TestScreenAndRankFaultIsolation(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	market.addGoodTicker("BBB")
	market.addGoodTicker("CCC")
	market.fundErr["BBB"] = errors.New("upstream 500")

	engine := New(DefaultConfig(), market, market)
	summary, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA", "BBB", "CCC"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}

	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	want := []string{"AAA", "CCC"}
	if len(summary.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(summary.Results), len(want))
	}
	for i, w := range want {
		if summary.Results[i].Ticker != w {
			t.Errorf("rank %d = %s, want %s", i, summary.Results[i].Ticker, w)
		}
	}
}

func TestScreenAndRankBenchmarkUnavailable(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	market.momentum["SPY"] = nil

	engine := New(DefaultConfig(), market, market)
	_, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA"), "SPY")
	if !errors.Is(err, ErrBenchmarkUnavailable) {
		t.Fatalf("err = %v, want ErrBenchmarkUnavailable", err)
	}

	market.momentum["SPY"] = seriesOf(100, 101)
	market.seriesErr["SPY"] = errors.New("rate limited")
	_, err = engine.ScreenAndRank(context.Background(), candidatesFor("AAA"), "SPY")
	if !errors.Is(err, ErrBenchmarkUnavailable) {
		t.Fatalf("err = %v, want ErrBenchmarkUnavailable on fetch failure", err)
	}
}

func TestScreenAndRankEmptyMomentumSeriesRejects(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	market.momentum["AAA"] = nil

	engine := New(DefaultConfig(), market, market)
	summary, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}
	if summary.Rejected != 1 || summary.Accepted != 0 {
		t.Errorf("accounting = %d accepted / %d rejected, want 0/1",
			summary.Accepted, summary.Rejected)
	}
}

func TestScreenAndRankFilterMonotonicity(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	market.fundamentals["AAA"].TargetMeanPrice = nil

	engine := New(DefaultConfig(), market, market)
	summary, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}
	if summary.Accepted != 0 {
		t.Fatalf("ticker without target price should be rejected")
	}

	// Supplying the missing field can only improve the outcome.
	market.fundamentals["AAA"].TargetMeanPrice = f64Ptr(110)
	summary, err = engine.ScreenAndRank(context.Background(), candidatesFor("AAA"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}
	if summary.Accepted != 1 {
		t.Errorf("ticker with target price restored should be accepted")
	}
}

func TestScreenAndRankSymbolGate(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")

	engine := New(DefaultConfig(), market, market)
	summary, err := engine.ScreenAndRank(context.Background(),
		candidatesFor("AAA", "brk.b", "TOOLONG", "AB1"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}
	if summary.Accepted != 1 || summary.Rejected != 3 {
		t.Errorf("accounting = %d accepted / %d rejected, want 1/3",
			summary.Accepted, summary.Rejected)
	}
}

func TestScreenAndRankNoEarningsHistoryRejects(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	market.earnings["AAA"] = nil

	engine := New(DefaultConfig(), market, market)
	summary, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}
	if summary.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", summary.Rejected)
	}
}

func TestScreenAndRankDeterminism(t *testing.T) {
	market := newFakeMarket()
	market.addGoodTicker("AAA")
	market.addGoodTicker("BBB")
	market.momentum["BBB"] = seriesOf(100, 108)

	engine := New(DefaultConfig(), market, market)
	first, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA", "BBB"), "SPY")
	if err != nil {
		t.Fatalf("ScreenAndRank: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.ScreenAndRank(context.Background(), candidatesFor("AAA", "BBB"), "SPY")
		if err != nil {
			t.Fatalf("ScreenAndRank run %d: %v", i, err)
		}
		if len(again.Results) != len(first.Results) {
			t.Fatalf("run %d: result count changed", i)
		}
		for j := range first.Results {
			if again.Results[j].MoveScore != first.Results[j].MoveScore ||
				again.Results[j].Ticker != first.Results[j].Ticker {
				t.Errorf("run %d: rank %d differs: %+v vs %+v",
					i, j, again.Results[j], first.Results[j])
			}
		}
	}
}

func TestScreenAndRankParallelMatchesSequential(t *testing.T) {
	market := newFakeMarket()
	for _, ticker := range []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"} {
		market.addGoodTicker(ticker)
	}
	market.momentum["CCC"] = seriesOf(100, 110)
	market.momentum["EEE"] = nil
	market.fundErr["DDD"] = errors.New("timeout")
	candidates := candidatesFor("AAA", "BBB", "CCC", "DDD", "EEE", "FFF")

	seqEngine := New(DefaultConfig(), market, market)
	seq, err := seqEngine.ScreenAndRank(context.Background(), candidates, "SPY")
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}

	parCfg := DefaultConfig()
	parCfg.Workers = 4
	parEngine := New(parCfg, market, market)
	par, err := parEngine.ScreenAndRank(context.Background(), candidates, "SPY")
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if len(par.Results) != len(seq.Results) {
		t.Fatalf("parallel returned %d results, sequential %d", len(par.Results), len(seq.Results))
	}
	for i := range seq.Results {
		if par.Results[i] != seq.Results[i] {
			t.Errorf("rank %d differs: parallel %+v, sequential %+v",
				i, par.Results[i], seq.Results[i])
		}
	}
	if par.Rejected != seq.Rejected || par.Failed != seq.Failed {
		t.Errorf("accounting differs: parallel %d/%d, sequential %d/%d",
			par.Rejected, par.Failed, seq.Rejected, seq.Failed)
	}
}
