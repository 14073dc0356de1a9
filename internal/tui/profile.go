package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"aiprov/internal/features"
)

type profileModel struct {
	names  []string
	cursor int
}

func newProfileModel() profileModel {
	names := features.ProfileNames()
	cursor := 0
	for i, n := range names {
		if n == "standard" {
			cursor = i
			break
		}
	}
	return profileModel{names: names, cursor: cursor}
}

func (m profileModel) selected() string {
	return m.names[m.cursor]
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.names)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m profileModel) View(width, height int) string {
	s := "\n"
	s += titleStyle.Render("  Select Feature Profile") + "\n"
	s += dimStyle.Render("  Decides which provenance features get enabled") + "\n\n"

	for i, name := range m.names {
		cursor := "  "
		style := listItemStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedStyle
		}
		enabled := len(features.Profiles[name])
		s += fmt.Sprintf("  %s%s\n", cursor, style.Render(fmt.Sprintf("%s (%d features)", name, enabled)))
	}

	s += "\n"
	s += helpStyle.Render("  ↑/↓ navigate • Enter select • q quit") + "\n"
	return s
}
