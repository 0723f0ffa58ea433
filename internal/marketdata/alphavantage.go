package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"
	"time"

	"earnings-screener/internal/api"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageClient fetches the earnings calendar and historical earnings
// report dates from the Alpha Vantage API.
type AlphaVantageClient struct {
	client  *api.Client
	apiKey  string
	baseURL string
	now     func() time.Time
}

// AlphaVantageOption configures the client
type AlphaVantageOption func(*AlphaVantageClient)

// WithAlphaVantageBaseURL overrides the API base URL (used in tests)
func WithAlphaVantageBaseURL(baseURL string) AlphaVantageOption {
	return func(c *AlphaVantageClient) {
		c.baseURL = baseURL
	}
}

// WithClock overrides the wall clock (used in tests)
func WithClock(now func() time.Time) AlphaVantageOption {
	return func(c *AlphaVantageClient) {
		c.now = now
	}
}

// NewAlphaVantageClient creates a calendar/earnings-history client
func NewAlphaVantageClient(apiKey string, opts ...AlphaVantageOption) *AlphaVantageClient {
	c := &AlphaVantageClient{
		client: api.NewClient(
			api.WithTimeout(20*time.Second),
			api.WithLogging(true),
		),
		apiKey:  apiKey,
		baseURL: alphaVantageBaseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpcomingEarnings fetches companies reporting within the next horizonDays
// days. The endpoint returns CSV with a fixed "symbol,name,reportDate"
// header; anything else is an API error payload.
func (c *AlphaVantageClient) UpcomingEarnings(ctx context.Context, horizonDays int) ([]CandidateEarningsEvent, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alpha vantage API key is not set")
	}

	reqURL := fmt.Sprintf("%s/query?function=EARNINGS_CALENDAR&horizon=3month&apikey=%s",
		c.baseURL, url.QueryEscape(c.apiKey))

	resp, err := c.client.GET(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("earnings calendar request failed: %w", err)
	}

	body := strings.TrimSpace(resp.String())
	if !strings.HasPrefix(body, "symbol,name,reportDate") {
		return nil, fmt.Errorf("earnings calendar returned a non-data response: %.200s", body)
	}

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse earnings calendar CSV: %w", err)
	}

	today := truncateToDay(c.now())
	cutoff := today.AddDate(0, 0, horizonDays)

	events := make([]CandidateEarningsEvent, 0, len(records))
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		reportDate, err := time.Parse("2006-01-02", rec[2])
		if err != nil {
			continue
		}
		if reportDate.Before(today) || reportDate.After(cutoff) {
			continue
		}
		events = append(events, CandidateEarningsEvent{
			Symbol:     rec[0],
			ReportDate: reportDate,
		})
	}

	return events, nil
}

// EarningsHistory fetches up to limit past quarterly report dates for a
// ticker, most recent first.
func (c *AlphaVantageClient) EarningsHistory(ctx context.Context, ticker string, limit int) ([]time.Time, error) {
	reqURL := fmt.Sprintf("%s/query?function=EARNINGS&symbol=%s&apikey=%s",
		c.baseURL, url.QueryEscape(ticker), url.QueryEscape(c.apiKey))

	resp, err := c.client.GET(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("earnings history request failed for %s: %w", ticker, err)
	}

	var payload struct {
		QuarterlyEarnings []struct {
			ReportedDate string `json:"reportedDate"`
		} `json:"quarterlyEarnings"`
	}
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse earnings history for %s: %w", ticker, err)
	}

	dates := make([]time.Time, 0, limit)
	for _, report := range payload.QuarterlyEarnings {
		if len(dates) >= limit {
			break
		}
		d, err := time.Parse("2006-01-02", report.ReportedDate)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}

	return dates, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
