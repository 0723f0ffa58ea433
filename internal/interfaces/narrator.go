package interfaces

import (
	"context"

	"earnings-screener/internal/narrative"
)

// Narrator turns a screened ticker's dossier into trader-facing output
type Narrator interface {
	// EntryPlan recommends a favorable entry price for the dossier's ticker
	EntryPlan(ctx context.Context, d *narrative.Dossier) (narrative.EntryPlan, error)

	// Tweet writes a short social post for the dossier's ticker
	Tweet(ctx context.Context, d *narrative.Dossier, plan narrative.EntryPlan) (string, error)
}
