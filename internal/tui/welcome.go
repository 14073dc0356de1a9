package tui

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"aiprov/internal/config"
	"aiprov/internal/gitx"
)

type repoStatus struct {
	gitRepo     bool
	initialized bool
	hooks       bool
	indexExists bool
}

type welcomeModel struct {
	status repoStatus
	ready  bool // true once the check has completed
}

// checkRepoMsg is sent after inspecting the repository.
type checkRepoMsg struct {
	status repoStatus
}

func checkRepo(cfg Config) tea.Cmd {
	return func() tea.Msg {
		var st repoStatus
		if repo, err := gitx.Open(cfg.Root); err == nil {
			st.gitRepo = true
			st.hooks = repo.IsInitialized()
		}
		if _, err := os.Stat(filepath.Join(cfg.Root, config.Dir)); err == nil {
			st.initialized = true
		}
		if _, err := os.Stat(cfg.DBPath); err == nil {
			st.indexExists = true
		}
		return checkRepoMsg{status: st}
	}
}

func (m welcomeModel) Update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case checkRepoMsg:
		m.status = msg.status
		m.ready = true
	}
	return m, nil
}

func (m welcomeModel) View(width, height int) string {
	s := "\n"
	s += titleStyle.Render("  ◆ ai-prov") + "\n"
	s += subtitleStyle.Render("  Track which parts of your codebase were written by AI") + "\n\n"

	if !m.ready {
		s += dimStyle.Render("  Checking repository...") + "\n"
		return s
	}

	if m.status.gitRepo {
		s += successStyle.Render("  ✓ Git repository detected") + "\n"
	} else {
		s += warnStyle.Render("  ⚠ Not a git repository (commit tracking disabled)") + "\n"
	}
	if m.status.initialized {
		s += successStyle.Render("  ✓ .ai-prov directory present") + "\n"
	} else {
		s += warnStyle.Render("  ✗ Not initialized yet") + "\n"
	}
	if m.status.hooks {
		s += successStyle.Render("  ✓ Git hooks installed") + "\n"
	}
	if m.status.indexExists {
		s += successStyle.Render("  ✓ Scan index found") + "\n"
	}

	s += "\n"
	s += dimStyle.Render("  Press Enter to choose a profile, q to quit") + "\n"
	return s
}
