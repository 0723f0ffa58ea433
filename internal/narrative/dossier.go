// Package narrative turns a top screening result into trader-facing prose:
// a quantitative dossier, an AI-recommended entry price, and a short
// social-media summary. Everything here is presentation; nothing feeds back
// into screening.
package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"earnings-screener/internal/marketdata"
	"earnings-screener/internal/news"
	"earnings-screener/internal/screen"
)

// EntryPlan is the strict JSON shape the model must answer with for an
// entry-price recommendation
type EntryPlan struct {
	EntryPrice string `json:"entry_price"`
	Rationale  string `json:"rationale"`
}

// FallbackEntryPlan is returned whenever model output is unavailable or
// unparseable; the scan result itself is still published.
func FallbackEntryPlan() EntryPlan {
	return EntryPlan{EntryPrice: "N/A", Rationale: "AI analysis failed."}
}

// CompetitorPerformance is one peer's trailing 30-day run-up
type CompetitorPerformance struct {
	Ticker   string
	RunupPct float64
}

// Dossier is the full quantitative context for one screened ticker
type Dossier struct {
	Result       screen.Result
	Fundamentals *marketdata.FundamentalsSnapshot
	Competitors  []CompetitorPerformance
	Headlines    []news.Headline
}

// Text renders the dossier as the line-per-fact block handed to the model
func (d *Dossier) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUANTITATIVE ANALYSIS FOR %s:\n", d.Result.Ticker)
	fmt.Fprintf(&b, "- Current Price: %s\n", dollars(d.Fundamentals.CurrentPrice))
	fmt.Fprintf(&b, "- 50-Day Moving Average: %s\n", dollars(d.Fundamentals.FiftyDayAverage))
	fmt.Fprintf(&b, "- 200-Day Moving Average: %s\n", dollars(d.Fundamentals.TwoHundredDayAverage))
	fmt.Fprintf(&b, "- Historical Avg. Post-Earnings Move: +/- %.2f%%\n", d.Result.AvgAbsPostMove)
	fmt.Fprintf(&b, "- Directional Bias (Win Rate): Finished UP %.0f%% of the time post-earnings.\n", d.Result.WinRatePct)
	fmt.Fprintf(&b, "- Typical Pre-Earnings Run-up (30D): %.2f%%\n", d.Result.AvgPreEarningsRunupPct)
	fmt.Fprintf(&b, "- Current 30-Day Run-up: %.2f%%\n", d.Result.StockRunupPct)
	fmt.Fprintf(&b, "- Analyst Consensus Upside: %.2f%%\n", d.Result.AnalystUpsidePct)
	fmt.Fprintf(&b, "- Competitor Context: %s\n", d.competitorContext())

	if len(d.Headlines) > 0 {
		b.WriteString("- Recent Headlines:\n")
		for _, h := range d.Headlines {
			fmt.Fprintf(&b, "  * %s (%s)\n", h.Title, h.Source)
		}
	}
	return b.String()
}

func (d *Dossier) competitorContext() string {
	if len(d.Competitors) == 0 {
		return "No competitor data found."
	}
	parts := make([]string, len(d.Competitors))
	for i, c := range d.Competitors {
		parts[i] = fmt.Sprintf("%s: %+.2f%%", c.Ticker, c.RunupPct)
	}
	return "Competitor Performance (30D): " + strings.Join(parts, ", ")
}

func dollars(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *v)
}

// parseEntryPlan decodes a model reply into an EntryPlan. Models routinely
// wrap JSON in markdown fences despite instructions, so fences are stripped
// before decoding.
func parseEntryPlan(raw string) (EntryPlan, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var plan EntryPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return EntryPlan{}, fmt.Errorf("entry plan is not valid JSON: %w", err)
	}
	if plan.EntryPrice == "" {
		return EntryPlan{}, fmt.Errorf("entry plan missing entry_price")
	}
	return plan, nil
}
