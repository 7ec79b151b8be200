package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hardy/onion/internal/bus"
	"github.com/hardy/onion/internal/history"
)

// minPanelWidth is the terminal width below which the history panel is
// hidden entirely.
const minPanelWidth = 100

// panelWidth is the fixed column width reserved for the panel when shown.
const panelWidth = 32

// panelModel is the history panel: recent prompts, most recent first.
type panelModel struct {
	notifier *bus.Notifier

	entries []history.Entry
	cursor  int
	focused bool

	width  int
	height int
}

func newPanelModel(notifier *bus.Notifier, entries []history.Entry) panelModel {
	return panelModel{
		notifier: notifier,
		entries:  entries,
		width:    panelWidth,
	}
}

// setEntries replaces the panel contents, keeping the cursor in range.
func (m panelModel) setEntries(entries []history.Entry) panelModel {
	m.entries = entries
	if m.cursor >= len(entries) {
		m.cursor = len(entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m panelModel) setSize(width, height int) panelModel {
	m.width = width
	m.height = height
	return m
}

func (m panelModel) Update(msg tea.Msg) (panelModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.entries) == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.entries) - 1
		}

	case "down", "j":
		m.cursor++
		if m.cursor >= len(m.entries) {
			m.cursor = 0
		}

	case "home", "g":
		m.cursor = 0

	case "end", "G":
		m.cursor = len(m.entries) - 1

	case "enter":
		entry := m.entries[m.cursor]
		m.notifier.Publish(bus.EntrySelected{Entry: entry})
	}

	return m, nil
}

// truncate shortens a prompt to fit one panel line.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func (m panelModel) View() string {
	var lines []string
	lines = append(lines, panelTitleStyle.Render("Recent"))
	lines = append(lines, "")

	if len(m.entries) == 0 {
		lines = append(lines, panelEmptyStyle.Render("No history yet"))
	} else {
		lineWidth := m.width - 6
		maxRows := m.height - 6
		if maxRows < 1 {
			maxRows = 1
		}
		for i, entry := range m.entries {
			if i >= maxRows {
				break
			}
			label := truncate(entry.Prompt, lineWidth)
			if i == m.cursor && m.focused {
				lines = append(lines, panelSelectedStyle.Render("> "+label))
			} else {
				lines = append(lines, panelItemStyle.Render("  "+label))
			}
		}
	}

	style := panelStyle
	if m.focused {
		style = panelFocusedStyle
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return style.Width(m.width - 2).Height(m.height - 2).Render(content)
}
