package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"earnings-screener/internal/interfaces"
	"earnings-screener/internal/logger"
	"earnings-screener/internal/marketdata"
	"earnings-screener/internal/narrative"
	"earnings-screener/internal/scanlog"
	"earnings-screener/internal/screen"
	"earnings-screener/internal/screen/screenobs"
	"earnings-screener/internal/store"
	"earnings-screener/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger, and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldJournals compresses old scan journal files if retention is configured
func compressOldJournals(ctx context.Context) {
	if v := os.Getenv("SCAN_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := scanlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old scan journals", "error", err)
		}
	}
}

// peerProvider supplies competitor tickers for dossier context
type peerProvider interface {
	RecommendedPeers(ctx context.Context, ticker string, max int) ([]string, error)
}

// providers bundles the market-data collaborators the scan needs
type providers struct {
	calendar interfaces.EarningsCalendar
	prices   screen.PriceHistoryProvider
	earnings screen.EarningsHistoryProvider
	peers    peerProvider
}

// initializeProviders wires the configured data source
func initializeProviders(ctx context.Context, cfg *store.Config) (*providers, error) {
	if cfg.DataSource == "MOCK" {
		logger.Warn(ctx, "Using MOCK market data - results are synthetic")
		m := marketdata.NewMockProvider()
		return &providers{calendar: m, prices: m, earnings: m, peers: m}, nil
	}

	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ALPHA_VANTAGE_API_KEY is not set")
	}

	logger.Info(ctx, "Using LIVE market data", "calendar", "alphavantage", "prices", "yahoo")
	av := marketdata.NewAlphaVantageClient(apiKey)
	yh := marketdata.NewYahooClient()
	return &providers{calendar: av, prices: yh, earnings: av, peers: yh}, nil
}

// initializeScreener builds the screening engine with observability middleware
func initializeScreener(cfg *store.Config, p *providers) interfaces.Screener {
	engine := screen.New(screen.Config{
		MinMarketCap:       cfg.Screen.MinMarketCap,
		MaxEarningsHistory: cfg.Screen.MaxEarningsHistory,
		MomentumWindowDays: cfg.Screen.MomentumWindowDays,
		Workers:            cfg.Screen.Workers,
		Weights: screen.ScoringWeights{
			Historical: cfg.Screen.Weights.Historical,
			Analyst:    cfg.Screen.Weights.Analyst,
			Momentum:   cfg.Screen.Weights.Momentum,
		},
	}, p.prices, p.earnings)

	// Wrap with observability middleware
	return screenobs.Wrap(engine)
}

// initializeNarrator builds the configured narrator, falling back to noop
func initializeNarrator(ctx context.Context, cfg *store.Config) interfaces.Narrator {
	if cfg.LLM.Provider == "GEMINI" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			logger.Warn(ctx, "GEMINI_API_KEY not set - using noop narrator")
			return narrative.NewNoop()
		}
		narrator, err := narrative.NewGemini(ctx, apiKey,
			narrative.WithModel(cfg.LLM.Model),
			narrative.WithMaxTokens(cfg.LLM.MaxTokens),
			narrative.WithTemperature(float64(cfg.LLM.Temperature)),
		)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to create Gemini narrator - using noop", err)
			return narrative.NewNoop()
		}
		return narrator
	}

	logger.Warn(ctx, "No LLM provider configured - using noop narrator")
	return narrative.NewNoop()
}

// competitorContext fetches the trailing run-up of up to three peers. Any
// peer that fails to resolve is skipped.
func competitorContext(ctx context.Context, p *providers, ticker string, windowDays int) []narrative.CompetitorPerformance {
	peers, err := p.peers.RecommendedPeers(ctx, ticker, 3)
	if err != nil {
		logger.Warn(ctx, "Failed to fetch peers", "ticker", ticker, "error", err)
		return nil
	}

	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)

	performance := make([]narrative.CompetitorPerformance, 0, len(peers))
	for _, peer := range peers {
		series, err := p.prices.PriceSeries(ctx, peer, start, end)
		if err != nil || len(series) == 0 {
			continue
		}
		first, _ := series.First()
		last, _ := series.Last()
		if first.Close == 0 {
			continue
		}
		performance = append(performance, narrative.CompetitorPerformance{
			Ticker:   peer,
			RunupPct: (last.Close - first.Close) / first.Close * 100,
		})
	}
	return performance
}
