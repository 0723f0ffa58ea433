package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"earnings-screener/internal/api"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches daily price history, fundamentals snapshots, and peer
// recommendations from the Yahoo Finance public endpoints.
type YahooClient struct {
	client  *api.Client
	baseURL string
}

// YahooOption configures the client
type YahooOption func(*YahooClient)

// WithYahooBaseURL overrides the API base URL (used in tests)
func WithYahooBaseURL(baseURL string) YahooOption {
	return func(c *YahooClient) {
		c.baseURL = baseURL
	}
}

// NewYahooClient creates a market-data client
func NewYahooClient(opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		client: api.NewClient(
			api.WithTimeout(30*time.Second),
			api.WithLogging(true),
		),
		baseURL: yahooBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the v8 chart endpoint payload
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PriceSeries fetches daily closes for [start, end]. An empty series is
// returned when Yahoo has no trading data in the window.
func (c *YahooClient) PriceSeries(ctx context.Context, ticker string, start, end time.Time) (PriceSeries, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(ticker), start.Unix(), end.Unix())

	resp, err := c.client.GET(ctx, reqURL, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("chart request failed for %s: %w", ticker, err)
	}

	var payload chartResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse chart response for %s: %w", ticker, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return PriceSeries{}, nil
	}

	result := payload.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	series := make(PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo pads holidays and half-sessions with null closes
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series = append(series, PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	return series, nil
}

// quoteSummaryResponse mirrors the v10 quoteSummary payload. Yahoo wraps
// every numeric field in a {raw, fmt} object and omits missing ones, which
// maps directly onto optional snapshot fields.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName *string    `json:"shortName"`
				MarketCap *rawNumber `json:"marketCap"`
			} `json:"price"`
			FinancialData *struct {
				CurrentPrice    *rawNumber `json:"currentPrice"`
				TargetMeanPrice *rawNumber `json:"targetMeanPrice"`
			} `json:"financialData"`
			SummaryDetail *struct {
				FiftyDayAverage      *rawNumber `json:"fiftyDayAverage"`
				TwoHundredDayAverage *rawNumber `json:"twoHundredDayAverage"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type rawNumber struct {
	Raw *float64 `json:"raw"`
}

func (n *rawNumber) value() *float64 {
	if n == nil {
		return nil
	}
	return n.Raw
}

// Fundamentals fetches a snapshot of name, market cap, prices, and moving
// averages. Missing upstream fields stay nil.
func (c *YahooClient) Fundamentals(ctx context.Context, ticker string) (*FundamentalsSnapshot, error) {
	reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,financialData,summaryDetail",
		c.baseURL, url.PathEscape(ticker))

	resp, err := c.client.GET(ctx, reqURL, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("quoteSummary request failed for %s: %w", ticker, err)
	}

	var payload quoteSummaryResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse quoteSummary for %s: %w", ticker, err)
	}
	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error for %s: %s", ticker, payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quoteSummary returned no result for %s", ticker)
	}

	result := payload.QuoteSummary.Result[0]
	snapshot := &FundamentalsSnapshot{}

	if result.Price != nil {
		snapshot.CompanyName = result.Price.ShortName
		snapshot.MarketCap = result.Price.MarketCap.value()
	}
	if result.FinancialData != nil {
		snapshot.CurrentPrice = result.FinancialData.CurrentPrice.value()
		snapshot.TargetMeanPrice = result.FinancialData.TargetMeanPrice.value()
	}
	if result.SummaryDetail != nil {
		snapshot.FiftyDayAverage = result.SummaryDetail.FiftyDayAverage.value()
		snapshot.TwoHundredDayAverage = result.SummaryDetail.TwoHundredDayAverage.value()
	}

	return snapshot, nil
}

// RecommendedPeers returns up to max peer tickers Yahoo associates with the
// given symbol, used for competitor context in the research dossier.
func (c *YahooClient) RecommendedPeers(ctx context.Context, ticker string, max int) ([]string, error) {
	reqURL := fmt.Sprintf("%s/v6/finance/recommendationsbysymbol/%s",
		c.baseURL, url.PathEscape(ticker))

	resp, err := c.client.GET(ctx, reqURL, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("recommendations request failed for %s: %w", ticker, err)
	}

	var payload struct {
		Finance struct {
			Result []struct {
				RecommendedSymbols []struct {
					Symbol string `json:"symbol"`
				} `json:"recommendedSymbols"`
			} `json:"result"`
		} `json:"finance"`
	}
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse recommendations for %s: %w", ticker, err)
	}
	if len(payload.Finance.Result) == 0 {
		return nil, nil
	}

	peers := make([]string, 0, max)
	for _, rec := range payload.Finance.Result[0].RecommendedSymbols {
		if len(peers) >= max {
			break
		}
		peers = append(peers, rec.Symbol)
	}

	return peers, nil
}
