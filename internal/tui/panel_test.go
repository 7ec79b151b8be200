package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hardy/onion/internal/bus"
	"github.com/hardy/onion/internal/history"
)

func testEntries() []history.Entry {
	return []history.Entry{
		{ID: 3, Prompt: "newest prompt", Response: "r3"},
		{ID: 2, Prompt: "middle prompt", Response: "r2"},
		{ID: 1, Prompt: "oldest prompt", Response: "r1"},
	}
}

func newTestPanel(entries []history.Entry) (panelModel, *bus.Notifier) {
	notifier := bus.NewNotifier()
	m := newPanelModel(notifier, entries)
	m = m.setSize(panelWidth, 40)
	m.focused = true
	return m, notifier
}

func TestPanel_ViewOrder(t *testing.T) {
	m, _ := newTestPanel(testEntries())
	view := m.View()

	first := strings.Index(view, "newest prompt")
	last := strings.Index(view, "oldest prompt")
	if first == -1 || last == -1 {
		t.Fatalf("view missing prompts:\n%s", view)
	}
	if first > last {
		t.Error("entries must render most recent first")
	}
}

func TestPanel_ViewEmpty(t *testing.T) {
	m, _ := newTestPanel(nil)
	view := m.View()

	if !strings.Contains(view, "No history yet") {
		t.Errorf("empty panel should say so:\n%s", view)
	}
}

func TestPanel_NavigationWraps(t *testing.T) {
	m, _ := newTestPanel(testEntries())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want wrap to 2", m.cursor)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want wrap to 0", m.cursor)
	}
}

func TestPanel_EnterPublishesSelection(t *testing.T) {
	m, notifier := newTestPanel(testEntries())
	events := notifier.Subscribe()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case ev := <-events:
		sel, ok := ev.(bus.EntrySelected)
		if !ok {
			t.Fatalf("event = %T, want EntrySelected", ev)
		}
		if sel.Entry.ID != 2 || sel.Entry.Prompt != "middle prompt" || sel.Entry.Response != "r2" {
			t.Errorf("selected = %+v, want the full middle entry", sel.Entry)
		}
	default:
		t.Fatal("no EntrySelected event published")
	}
}

func TestPanel_SetEntriesClampsCursor(t *testing.T) {
	m, _ := newTestPanel(testEntries())
	m.cursor = 2

	m = m.setEntries(testEntries()[:1])
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}

	m = m.setEntries(nil)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after emptying, want 0", m.cursor)
	}
}

func TestPanel_KeysIgnoredWhenEmpty(t *testing.T) {
	m, notifier := newTestPanel(nil)
	events := notifier.Subscribe()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	select {
	case <-events:
		t.Error("enter on an empty panel must not publish")
	default:
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 20, "short"},
		{"exactly ten..", 13, "exactly ten.."},
		{"a long prompt that keeps going", 10, "a long pr…"},
		{"line\nbreaks\nflattened", 30, "line breaks flattened"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
