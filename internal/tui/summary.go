package tui

import (
	"fmt"

	"aiprov/internal/features"
	"aiprov/internal/index"
)

type summaryModel struct {
	profile string
	stats   *index.Stats
	err     error
}

func newSummaryModel(profile string, stats *index.Stats, err error) summaryModel {
	return summaryModel{profile: profile, stats: stats, err: err}
}

func (m summaryModel) View(width, height int) string {
	s := "\n"
	s += titleStyle.Render("  Setup complete") + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Scan failed: %v", m.err)) + "\n\n"
		s += dimStyle.Render("  Press Enter to exit") + "\n"
		return s
	}

	s += successStyle.Render(fmt.Sprintf("  ✓ Profile %q enabled", m.profile)) + "\n"
	if fs, ok := features.Profiles[m.profile]; ok {
		for _, f := range fs {
			s += dimStyle.Render("    • "+string(f)) + "\n"
		}
	}

	if m.stats != nil {
		s += "\n"
		s += fmt.Sprintf("  Files: %d total, %d scanned, %d unchanged\n",
			m.stats.FilesTotal, m.stats.FilesScanned, m.stats.FilesSkipped)
		s += fmt.Sprintf("  AI hunks found: %d\n", m.stats.HunksTotal)
	}

	s += "\n"
	s += dimStyle.Render("  Next: stamp files with `ai-prov stamp`, query with `ai-prov query`") + "\n"
	s += dimStyle.Render("  Press Enter to exit") + "\n"
	return s
}
