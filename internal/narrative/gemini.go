package narrative

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"earnings-screener/internal/logger"
)

const DefaultModel = "gemini-pro"

// Gemini generates entry plans and tweets via the Google Gemini API
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

// GeminiOption configures the narrator
type GeminiOption func(*Gemini)

// WithModel sets the model to use
func WithModel(model string) GeminiOption {
	return func(g *Gemini) {
		g.model = model
	}
}

// WithMaxTokens caps the response length
func WithMaxTokens(maxTokens int) GeminiOption {
	return func(g *Gemini) {
		g.maxTokens = int32(maxTokens)
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temperature float64) GeminiOption {
	return func(g *Gemini) {
		g.temperature = float32(temperature)
	}
}

// NewGemini creates a Gemini-backed narrator
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &Gemini{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// EntryPlan asks the model for a favorable entry price as strict JSON.
// Any failure degrades to the fallback plan; the scan never depends on the
// model answering.
func (g *Gemini) EntryPlan(ctx context.Context, d *Dossier) (EntryPlan, error) {
	prompt := fmt.Sprintf(`You are a professional trading strategist. Using only the
quantitative dossier below, recommend a favorable entry price for %s ahead
of its earnings report.

%s
Respond with a single JSON object and nothing else, no markdown, in the form:
{"entry_price": "<price or range as a string>", "rationale": "<one or two sentences>"}`,
		d.Result.Ticker, d.Text())

	text, err := g.generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Entry price analysis failed", err, "ticker", d.Result.Ticker)
		return FallbackEntryPlan(), nil
	}

	plan, err := parseEntryPlan(text)
	if err != nil {
		logger.ErrorWithErr(ctx, "Entry plan response unparseable", err, "ticker", d.Result.Ticker)
		return FallbackEntryPlan(), nil
	}

	logger.Info(ctx, "AI recommended entry price",
		"ticker", d.Result.Ticker, "entry_price", plan.EntryPrice)
	return plan, nil
}

// Tweet asks the model for a short social post about the top contender
func (g *Gemini) Tweet(ctx context.Context, d *Dossier, plan EntryPlan) (string, error) {
	prompt := fmt.Sprintf(`You are a financial analyst writing for a trading audience on X.
Write one tweet (under 280 characters) previewing $%s's upcoming earnings.
Lead with the historical average post-earnings move, mention the win rate,
and close with the favorable entry around %s. No hashtags beyond the cashtag,
no emoji, no financial advice disclaimers.

%s`, d.Result.Ticker, plan.EntryPrice, d.Text())

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("tweet generation failed for %s: %w", d.Result.Ticker, err)
	}
	return text, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if g.temperature > 0 {
		t := g.temperature
		config.Temperature = &t
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = g.maxTokens
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
