// Package tui implements the setup wizard launched by running ai-prov with
// no arguments: it checks the repository state, lets the user pick a feature
// profile, runs an initial scan, and shows a summary.
package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"aiprov/internal/config"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewWelcome ViewState = iota
	ViewProfile
	ViewScanning
	ViewSummary
)

// programRef is an indirect pointer to the tea.Program so background
// goroutines can send messages. It must be set after tea.NewProgram returns
// but before Run.
type programRef struct {
	p *tea.Program
}

// Config holds configuration passed from the CLI layer.
type Config struct {
	Root   string // repository root
	DBPath string

	// program is set internally so background goroutines can send messages.
	program *programRef
}

// Model is the top-level Bubble Tea model.
type Model struct {
	state  ViewState
	config Config
	width  int
	height int

	welcome  welcomeModel
	profile  profileModel
	scanning scanningModel
	summary  summaryModel
	err      error
}

// New creates a new wizard model with the given config.
func New(cfg Config) Model {
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.Root, config.Dir, "index.db")
	}
	return Model{
		state:   ViewWelcome,
		config:  cfg,
		profile: newProfileModel(),
	}
}

func (m Model) Init() tea.Cmd {
	return checkRepo(m.config)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit.
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	switch m.state {
	case ViewWelcome:
		m.welcome, cmd = m.welcome.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter && m.welcome.ready {
			m.state = ViewProfile
			return m, nil
		}

	case ViewProfile:
		m.profile, cmd = m.profile.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
			m.state = ViewScanning
			m.scanning = newScanningModel()
			return m, tea.Batch(m.scanning.spinner.Tick, runSetup(m.config, m.profile.selected()))
		}

	case ViewScanning:
		m.scanning, cmd = m.scanning.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if m.scanning.done {
			m.summary = newSummaryModel(m.profile.selected(), m.scanning.stats, m.scanning.err)
			m.state = ViewSummary
			return m, nil
		}

	case ViewSummary:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.state {
	case ViewWelcome:
		return m.welcome.View(m.width, m.height)
	case ViewProfile:
		return m.profile.View(m.width, m.height)
	case ViewScanning:
		return m.scanning.View(m.width, m.height)
	case ViewSummary:
		return m.summary.View(m.width, m.height)
	}
	return ""
}

// Run starts the wizard.
func Run(cfg Config) error {
	ref := &programRef{}
	cfg.program = ref
	model := New(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.p = p
	_, err := p.Run()
	return err
}
