package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"earnings-screener/internal/logger"
)

// Headline is one scraped news item for a company
type Headline struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at,omitempty"`
	Symbol      string `json:"symbol"`
}

// Scraper fetches recent company headlines ahead of an earnings report
type Scraper struct {
	timeout time.Duration
}

// NewScraper creates a news scraper
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{timeout: timeout}
}

// CompanyHeadlines searches Google News for recent coverage of a company.
// Scraping failures degrade to an empty slice at the caller; headlines are
// color for the narrative, never an input to screening.
func (s *Scraper) CompanyHeadlines(ctx context.Context, symbol, companyName string, maxHeadlines int) ([]Headline, error) {
	headlines := []Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlines {
			return
		}
		if h, ok := headlineFromArticle(e.DOM, symbol); ok {
			headlines = append(headlines, h)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "News scraping error", err, "url", r.Request.URL.String())
	})

	query := url.QueryEscape(companyName + " earnings")
	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en", query)

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape news for %s: %w", companyName, err)
	}
	c.Wait()

	logger.Info(ctx, "News scraping completed",
		"symbol", symbol, "headlines", len(headlines))
	return headlines, nil
}

// headlineFromArticle extracts one headline from a Google News article node.
// Relative article links are rewritten to absolute ones.
func headlineFromArticle(sel *goquery.Selection, symbol string) (Headline, bool) {
	title := strings.TrimSpace(sel.Find("h3, h4").First().Text())
	if title == "" {
		// Newer layouts put the headline on the link itself.
		title = strings.TrimSpace(sel.Find("a.JtKRv").First().Text())
	}
	link, _ := sel.Find("a").First().Attr("href")
	if title == "" || link == "" {
		return Headline{}, false
	}
	if strings.HasPrefix(link, "./articles/") || strings.HasPrefix(link, "./read/") {
		link = "https://news.google.com" + link[1:]
	}

	source := strings.TrimSpace(sel.Find("div[data-n-tid]").First().Text())
	published, _ := sel.Find("time").First().Attr("datetime")

	return Headline{
		Title:       title,
		URL:         link,
		Source:      source,
		PublishedAt: published,
		Symbol:      symbol,
	}, true
}
