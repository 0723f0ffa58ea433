package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"earnings-screener/internal/logger"
	"earnings-screener/internal/marketdata"
	"earnings-screener/internal/narrative"
	"earnings-screener/internal/news"
	"earnings-screener/internal/publish"
	"earnings-screener/internal/scanlog"
	"earnings-screener/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer func() {
		if err := trace.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "Failed to shut down tracer", "error", err)
		}
	}()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldJournals(ctx)

	p, err := initializeProviders(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize market data providers", err)
		os.Exit(1)
	}

	candidates, err := p.calendar.UpcomingEarnings(ctx, cfg.Calendar.HorizonDays)
	if err != nil {
		logger.ErrorWithErr(ctx, "Could not retrieve upcoming earnings - check your API key and usage limits", err)
		os.Exit(1)
	}
	if len(candidates) == 0 {
		logger.Error(ctx, "No upcoming earnings in the date range")
		os.Exit(1)
	}
	logger.Info(ctx, "Upcoming earnings retrieved",
		"count", len(candidates), "horizon_days", cfg.Calendar.HorizonDays)

	screener := initializeScreener(cfg, p)
	summary, err := screener.ScreenAndRank(ctx, candidates, cfg.Screen.Benchmark)
	if err != nil {
		logger.ErrorWithErr(ctx, "Screening failed", err)
		os.Exit(1)
	}
	if len(summary.Results) == 0 {
		logger.Error(ctx, "No high-quality opportunities after filtering",
			"rejected", summary.Rejected, "failed", summary.Failed)
		os.Exit(1)
	}

	logger.Info(ctx, "--- Full Ranked List of Potential Movers ---")
	for i, r := range summary.Results {
		logger.Info(ctx, fmt.Sprintf("%d. $%s (%s)", i+1, r.Ticker, r.CompanyName),
			"move_score", r.MoveScore,
			"earnings_date", r.EarningsDate.Format("2006-01-02"))
	}

	narrator := initializeNarrator(ctx, cfg)

	// Every ranked ticker gets an entry plan; the published artifact carries
	// the full enriched list, not just the top contender.
	movers := make([]publish.EnrichedResult, 0, len(summary.Results))
	var topDossier *narrative.Dossier
	for i, result := range summary.Results {
		dossier := &narrative.Dossier{Result: result}
		if fund, err := p.prices.Fundamentals(ctx, result.Ticker); err == nil {
			dossier.Fundamentals = fund
		} else {
			logger.Warn(ctx, "Fundamentals refresh failed for dossier",
				"ticker", result.Ticker, "error", err)
			dossier.Fundamentals = &marketdata.FundamentalsSnapshot{}
		}
		dossier.Competitors = competitorContext(ctx, p, result.Ticker, cfg.Screen.MomentumWindowDays)

		if i == 0 && cfg.News.Enabled {
			scraper := news.NewScraper(20 * time.Second)
			headlines, err := scraper.CompanyHeadlines(ctx, result.Ticker, result.CompanyName, cfg.News.MaxHeadlines)
			if err != nil {
				logger.Warn(ctx, "Headline scrape failed", "ticker", result.Ticker, "error", err)
			} else {
				dossier.Headlines = headlines
			}
		}

		plan, err := narrator.EntryPlan(ctx, dossier)
		if err != nil {
			logger.Warn(ctx, "Entry plan failed", "ticker", result.Ticker, "error", err)
			plan = narrative.FallbackEntryPlan()
		}
		movers = append(movers, publish.EnrichedResult{Result: result, FavorableEntry: plan})

		if i == 0 {
			topDossier = dossier
		}
	}

	publisher := publish.New(cfg.Publish.OutputFile, cfg.Publish.GitPush, cfg.Publish.Branch)
	report := &publish.ScanReport{LastUpdated: time.Now(), TopMovers: movers}
	if err := publisher.Publish(ctx, report); err != nil {
		logger.ErrorWithErr(ctx, "Failed to publish scan report", err)
		os.Exit(1)
	}

	top := summary.Results[0]
	if err := scanlog.Append(scanlog.Entry{
		Benchmark:       summary.Benchmark,
		BenchmarkRunup:  summary.BenchmarkRunup,
		TotalCandidates: summary.TotalCandidates,
		Accepted:        summary.Accepted,
		Rejected:        summary.Rejected,
		Failed:          summary.Failed,
		TopTicker:       top.Ticker,
		TopMoveScore:    top.MoveScore,
	}); err != nil {
		logger.Warn(ctx, "Failed to append scan journal", "error", err)
	}

	logger.Info(ctx, "--- Definitive Selection ---",
		"ticker", top.Ticker, "move_score", top.MoveScore)

	tweet, err := narrator.Tweet(ctx, topDossier, movers[0].FavorableEntry)
	if err != nil {
		logger.ErrorWithErr(ctx, "Tweet generation failed", err, "ticker", top.Ticker)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("===================================")
	fmt.Println("   GENERATED TWEET CONTENT")
	fmt.Println("===================================")
	fmt.Println(tweet)
	fmt.Println("===================================")
}
