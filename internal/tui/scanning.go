package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"aiprov/internal/config"
	"aiprov/internal/features"
	"aiprov/internal/gitx"
	"aiprov/internal/index"
)

type scanningModel struct {
	spinner      spinner.Model
	filesScanned int
	filesTotal   int
	done         bool
	stats        *index.Stats
	err          error
}

func newScanningModel() scanningModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle
	return scanningModel{spinner: sp}
}

// setupDoneMsg is sent when initialization and scanning complete.
type setupDoneMsg struct {
	stats *index.Stats
	err   error
}

// scanProgressMsg is sent for each stored file during the scan.
type scanProgressMsg struct {
	done  int
	total int
}

// runSetup applies the chosen profile, installs git integration where
// possible, and runs the initial scan.
func runSetup(cfg Config, profile string) tea.Cmd {
	return func() tea.Msg {
		set, err := features.FromProfile(profile)
		if err != nil {
			return setupDoneMsg{err: err}
		}
		if err := features.Save(cfg.Root, set); err != nil {
			return setupDoneMsg{err: err}
		}
		if _, err := os.Stat(config.Path(cfg.Root)); os.IsNotExist(err) {
			if err := config.Save(cfg.Root, config.Default()); err != nil {
				return setupDoneMsg{err: err}
			}
		}

		if repo, err := gitx.Open(cfg.Root); err == nil && set.IsEnabled(features.FeatureGitNotes) {
			// Best effort: hooks are a convenience, not a requirement.
			_, _ = repo.InstallHooks()
			_, _ = repo.EnsureGitAttributes()
		}

		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return setupDoneMsg{err: fmt.Errorf("create db directory: %w", err)}
		}
		idx, err := index.New(index.Config{DBPath: cfg.DBPath})
		if err != nil {
			return setupDoneMsg{err: err}
		}
		defer idx.Close()

		stats, err := idx.Scan(cfg.Root, func(done, total int) {
			if cfg.program != nil && cfg.program.p != nil {
				cfg.program.p.Send(scanProgressMsg{done: done, total: total})
			}
		})
		return setupDoneMsg{stats: stats, err: err}
	}
}

func (m scanningModel) Update(msg tea.Msg) (scanningModel, tea.Cmd) {
	switch msg := msg.(type) {
	case setupDoneMsg:
		m.done = true
		m.stats = msg.stats
		m.err = msg.err
		return m, nil
	case scanProgressMsg:
		m.filesScanned = msg.done
		m.filesTotal = msg.total
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m scanningModel) View(width, height int) string {
	s := "\n"
	s += titleStyle.Render("  Scanning repository") + "\n\n"
	s += fmt.Sprintf("  %s Looking for AI tags...\n", m.spinner.View())
	if m.filesTotal > 0 {
		s += fmt.Sprintf("  %d / %d files\n", m.filesScanned, m.filesTotal)
	}
	return s
}
