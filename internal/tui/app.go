package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hardy/onion/internal/bus"
	"github.com/hardy/onion/internal/history"
)

type (
	busEventMsg struct {
		event bus.Event
	}
	historyChangedMsg struct{}
)

// appModel composes the conversation pane and the history panel. The two
// never touch each other directly; updates flow through the notifier.
type appModel struct {
	pane  paneModel
	panel panelModel

	store    *history.Store
	notifier *bus.Notifier
	events   <-chan bus.Event
	watcher  *history.Watcher

	focusPanel bool

	width  int
	height int
}

func newAppModel(client Completer, store *history.Store, notifier *bus.Notifier, watcher *history.Watcher) appModel {
	// One full read at mount; a failed read starts with an empty panel.
	entries, err := store.List()
	if err != nil {
		entries = nil
	}

	return appModel{
		pane:     newPaneModel(client, store, notifier),
		panel:    newPanelModel(notifier, entries),
		store:    store,
		notifier: notifier,
		events:   notifier.Subscribe(),
		watcher:  watcher,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.pane.Init(), m.waitForEvent(), m.waitForChange())
}

// waitForEvent pumps one notifier event into the program.
func (m appModel) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return busEventMsg{event: ev}
	}
}

// waitForChange pumps one external-change signal from the file watcher.
func (m appModel) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return historyChangedMsg{}
	}
}

func (m appModel) panelVisible() bool {
	return m.width >= minPanelWidth
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		paneWidth := m.width
		if m.panelVisible() {
			paneWidth -= panelWidth
		} else {
			m.focusPanel = false
		}
		m.pane = m.pane.setSize(paneWidth, m.height)
		m.panel = m.panel.setSize(panelWidth, m.height)
		m.panel.focused = m.focusPanel
		return m, nil

	case busEventMsg:
		switch ev := msg.event.(type) {
		case bus.HistoryUpdated:
			m.panel = m.panel.setEntries(ev.Entries)
		case bus.EntrySelected:
			m.pane = m.pane.applySelection(ev.Entry)
			m.focusPanel = false
			m.panel.focused = false
		}
		return m, m.waitForEvent()

	case historyChangedMsg:
		// The file changed under us; reread and announce like any append.
		if entries, err := m.store.List(); err == nil {
			m.notifier.Publish(bus.HistoryUpdated{Entries: entries})
		}
		return m, m.waitForChange()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			if m.panelVisible() && !m.pane.loading {
				m.focusPanel = !m.focusPanel
				m.panel.focused = m.focusPanel
				return m, nil
			}

		case "esc":
			if m.focusPanel {
				m.focusPanel = false
				m.panel.focused = false
				return m, nil
			}
			if !m.pane.loading {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.focusPanel {
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
		m.pane, cmd = m.pane.Update(msg)
		return m, cmd
	}

	m.pane, cmd = m.pane.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	if m.width == 0 {
		return loadingStyle.Render("  Initializing...")
	}

	pane := m.pane.View()
	if !m.panelVisible() {
		return pane
	}

	panel := m.panel.View()
	view := lipgloss.JoinHorizontal(lipgloss.Top, pane, panel)

	var status []string
	for _, s := range [][2]string{
		{"Enter", "Send"},
		{"Tab", "History"},
		{"1-4", "Suggestions"},
		{"Esc", "Quit"},
	} {
		status = append(status, statusKeyStyle.Render(s[0])+statusDescStyle.Render(" "+s[1]))
	}
	bar := statusBarStyle.Width(m.width).Align(lipgloss.Center).Render(strings.Join(status, "  │  "))

	return lipgloss.JoinVertical(lipgloss.Left, view, bar)
}

// RunChat starts the chat TUI. The watcher may be nil when external
// change detection is unavailable.
func RunChat(client Completer, store *history.Store, notifier *bus.Notifier, watcher *history.Watcher) error {
	m := newAppModel(client, store, notifier, watcher)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
