package narrative

import (
	"context"
	"fmt"
)

// Noop is the fallback narrator used when no model is configured. It keeps
// the pipeline runnable: the entry plan is the fallback and the tweet is a
// plain template built from the dossier numbers.
type Noop struct{}

// NewNoop returns a narrator that never calls a model
func NewNoop() *Noop {
	return &Noop{}
}

// EntryPlan implements the Narrator interface
func (n *Noop) EntryPlan(_ context.Context, _ *Dossier) (EntryPlan, error) {
	return FallbackEntryPlan(), nil
}

// Tweet implements the Narrator interface
func (n *Noop) Tweet(_ context.Context, d *Dossier, _ EntryPlan) (string, error) {
	return fmt.Sprintf(
		"$%s reports earnings %s. Historical avg post-earnings move: +/- %.2f%%, finished up %.0f%% of the time. Analyst consensus upside: %.2f%%.",
		d.Result.Ticker,
		d.Result.EarningsDate.Format("Jan 2"),
		d.Result.AvgAbsPostMove,
		d.Result.WinRatePct,
		d.Result.AnalystUpsidePct,
	), nil
}
