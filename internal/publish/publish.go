// Package publish writes the finished scan to its JSON artifact and
// optionally commits and pushes it to a git repository.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"earnings-screener/internal/logger"
	"earnings-screener/internal/narrative"
	"earnings-screener/internal/screen"
)

// EnrichedResult is one ranked ticker plus its AI entry plan
type EnrichedResult struct {
	screen.Result
	FavorableEntry narrative.EntryPlan `json:"favorable_entry"`
}

// ScanReport is the published artifact shape. Field names are part of the
// downstream contract and must not change.
type ScanReport struct {
	LastUpdated time.Time        `json:"lastUpdated"`
	TopMovers   []EnrichedResult `json:"topMovers"`
}

// Publisher writes scan reports to disk and optionally pushes them
type Publisher struct {
	outputFile string
	gitPush    bool
	branch     string
}

// New creates a publisher
func New(outputFile string, gitPush bool, branch string) *Publisher {
	if branch == "" {
		branch = "main"
	}
	return &Publisher{
		outputFile: outputFile,
		gitPush:    gitPush,
		branch:     branch,
	}
}

// Publish writes the report and, when enabled, commits and pushes it
func (p *Publisher) Publish(ctx context.Context, report *ScanReport) error {
	if err := p.write(report); err != nil {
		return err
	}
	logger.Info(ctx, "Scan report written",
		"file", p.outputFile, "top_movers", len(report.TopMovers))

	if !p.gitPush {
		return nil
	}
	return p.push(ctx, report.LastUpdated)
}

func (p *Publisher) write(report *ScanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scan report: %w", err)
	}
	if dir := filepath.Dir(p.outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(p.outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scan report: %w", err)
	}
	return nil
}

// push shells out to git rather than reimplementing commit plumbing. The
// artifact lives inside an already-cloned, already-authenticated checkout.
func (p *Publisher) push(ctx context.Context, at time.Time) error {
	message := fmt.Sprintf("Automated earnings scan update: %s", at.Format("2006-01-02 15:04:05"))

	steps := [][]string{
		{"git", "add", p.outputFile},
		{"git", "commit", "-m", message},
		{"git", "push", "origin", p.branch},
	}
	for _, step := range steps {
		cmd := exec.CommandContext(ctx, step[0], step[1:]...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			// Committing an unchanged artifact is a no-op, not a failure.
			if step[1] == "commit" && strings.Contains(string(out), "nothing to commit") {
				logger.Info(ctx, "Scan report unchanged, skipping push")
				return nil
			}
			return fmt.Errorf("git %s failed: %s: %w", step[1], strings.TrimSpace(string(out)), err)
		}
	}

	logger.Info(ctx, "Scan report pushed", "branch", p.branch)
	return nil
}
