package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hardy/onion/internal/bus"
	apierrors "github.com/hardy/onion/internal/errors"
	"github.com/hardy/onion/internal/history"
)

// stubCompleter records calls and returns canned results.
type stubCompleter struct {
	text string
	err  error

	completeCalls int
	fileCalls     int
	gotPrompt     string
	gotPath       string
}

func (s *stubCompleter) Complete(prompt string) (string, error) {
	s.completeCalls++
	s.gotPrompt = prompt
	return s.text, s.err
}

func (s *stubCompleter) CompleteFile(path, prompt string) (string, error) {
	s.fileCalls++
	s.gotPath = path
	s.gotPrompt = prompt
	return s.text, s.err
}

func newTestPane(t *testing.T, stub *stubCompleter) (paneModel, *history.Store, *bus.Notifier) {
	t.Helper()

	store, err := history.NewStore(t.TempDir(), 10)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	notifier := bus.NewNotifier()
	m := newPaneModel(stub, store, notifier)
	m = m.setSize(120, 40)
	return m, store, notifier
}

// resolveMsgs runs a command tree and collects the produced messages.
func resolveMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, resolveMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// completionMsg picks the completion outcome out of a resolved batch.
func completionMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	for _, msg := range resolveMsgs(cmd) {
		switch msg.(type) {
		case responseMsg, errMsg:
			return msg
		}
	}
	t.Fatal("no completion message produced")
	return nil
}

func pressEnter(m paneModel) (paneModel, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestPane_SubmitSuccess(t *testing.T) {
	stub := &stubCompleter{text: "Hi there"}
	m, store, notifier := newTestPane(t, stub)
	events := notifier.Subscribe()

	m.textarea.SetValue("Hello")
	m, cmd := pressEnter(m)

	if !m.loading {
		t.Error("pane should be loading after submit")
	}
	if m.lastPrompt != "Hello" {
		t.Errorf("lastPrompt = %q", m.lastPrompt)
	}

	m, _ = m.Update(completionMsg(t, cmd))

	if m.loading {
		t.Error("pane should not be loading after response")
	}
	if m.response != "Hi there" {
		t.Errorf("response = %q", m.response)
	}
	if m.textarea.Value() != "" {
		t.Errorf("draft should be cleared on success, got %q", m.textarea.Value())
	}
	if stub.completeCalls != 1 {
		t.Errorf("completeCalls = %d, want 1", stub.completeCalls)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("store has %d entries, want 1", len(entries))
	}
	if entries[0].Prompt != "Hello" || entries[0].Response != "Hi there" {
		t.Errorf("entry = %+v", entries[0])
	}

	select {
	case ev := <-events:
		updated, ok := ev.(bus.HistoryUpdated)
		if !ok {
			t.Fatalf("event = %T, want HistoryUpdated", ev)
		}
		if len(updated.Entries) != 1 || updated.Entries[0].Prompt != "Hello" {
			t.Errorf("event entries = %+v", updated.Entries)
		}
	default:
		t.Error("no HistoryUpdated event published")
	}
}

func TestPane_WhitespacePromptIsNoOp(t *testing.T) {
	stub := &stubCompleter{text: "never"}
	m, store, _ := newTestPane(t, stub)

	m.textarea.SetValue("   \n  ")
	m, _ = pressEnter(m)

	if m.loading {
		t.Error("whitespace-only draft must not start a request")
	}
	if stub.completeCalls != 0 {
		t.Errorf("completeCalls = %d, want 0", stub.completeCalls)
	}
	entries, _ := store.List()
	if len(entries) != 0 {
		t.Errorf("store has %d entries, want 0", len(entries))
	}
}

func TestPane_ErrorKeepsDraft(t *testing.T) {
	stub := &stubCompleter{err: apierrors.NewUpstreamError(500, "AI request failed", "rate limited")}
	m, store, _ := newTestPane(t, stub)

	m.textarea.SetValue("Hello")
	m, cmd := pressEnter(m)
	m, _ = m.Update(completionMsg(t, cmd))

	if m.loading {
		t.Error("pane should not be loading after error")
	}
	if m.err == nil {
		t.Fatal("pane should record the error")
	}
	if apierrors.Detail(m.err) != "rate limited" {
		t.Errorf("error detail = %q", apierrors.Detail(m.err))
	}
	if m.response != "" {
		t.Errorf("response = %q, want empty after error", m.response)
	}
	if m.textarea.Value() != "Hello" {
		t.Errorf("draft = %q, want retained Hello", m.textarea.Value())
	}

	entries, _ := store.List()
	if len(entries) != 0 {
		t.Error("failed request must not create a history entry")
	}
}

func TestPane_EmptyResponseStillRecorded(t *testing.T) {
	stub := &stubCompleter{text: ""}
	m, store, _ := newTestPane(t, stub)

	m.textarea.SetValue("Hello")
	m, cmd := pressEnter(m)
	m, _ = m.Update(completionMsg(t, cmd))

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	entries, _ := store.List()
	if len(entries) != 1 {
		t.Fatalf("store has %d entries, want 1", len(entries))
	}
	if entries[0].Response != "" {
		t.Errorf("response = %q, want empty", entries[0].Response)
	}
}

func TestPane_SelectionRestoresWithoutNetworkCall(t *testing.T) {
	stub := &stubCompleter{}
	m, _, _ := newTestPane(t, stub)

	entry := history.Entry{ID: 42, Prompt: "old prompt", Response: "old response"}
	m = m.applySelection(entry)

	if m.textarea.Value() != "old prompt" {
		t.Errorf("draft = %q", m.textarea.Value())
	}
	if m.lastPrompt != "old prompt" {
		t.Errorf("lastPrompt = %q", m.lastPrompt)
	}
	if m.response != "old response" {
		t.Errorf("response = %q", m.response)
	}
	if stub.completeCalls != 0 || stub.fileCalls != 0 {
		t.Error("selection must not trigger any completion call")
	}
}

func TestPane_SelectionIgnoredWhileLoading(t *testing.T) {
	stub := &stubCompleter{text: "x"}
	m, _, _ := newTestPane(t, stub)

	m.textarea.SetValue("in flight")
	m, _ = pressEnter(m)

	m = m.applySelection(history.Entry{ID: 1, Prompt: "other", Response: "r"})
	if m.lastPrompt != "in flight" {
		t.Errorf("lastPrompt = %q, selection must not apply while loading", m.lastPrompt)
	}
}

func TestPane_SuggestionDigitSubmits(t *testing.T) {
	stub := &stubCompleter{text: "ok"}
	m, _, _ := newTestPane(t, stub)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	if !m.loading {
		t.Fatal("digit on the greeting should submit the suggestion")
	}
	m, _ = m.Update(completionMsg(t, cmd))

	if stub.gotPrompt != suggestions[0] {
		t.Errorf("prompt = %q, want %q", stub.gotPrompt, suggestions[0])
	}
}

func TestPane_DigitTypesNormallyWithDraft(t *testing.T) {
	stub := &stubCompleter{}
	m, _, _ := newTestPane(t, stub)

	m.textarea.SetValue("top ")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})

	if m.loading {
		t.Error("digit in a non-empty draft must not submit")
	}
	if m.textarea.Value() != "top 3" {
		t.Errorf("draft = %q, want 'top 3'", m.textarea.Value())
	}
}

func TestPane_AttachCommand(t *testing.T) {
	stub := &stubCompleter{text: "a cat"}
	m, store, _ := newTestPane(t, stub)

	m.textarea.SetValue("/attach /tmp/photo.png")
	m, _ = pressEnter(m)

	if m.attachedFile != "/tmp/photo.png" {
		t.Fatalf("attachedFile = %q", m.attachedFile)
	}
	if m.textarea.Value() != "" {
		t.Error("attach command should clear the draft")
	}
	if stub.completeCalls != 0 || stub.fileCalls != 0 {
		t.Error("attach command must not trigger a request")
	}

	m.textarea.SetValue("describe this")
	m, cmd := pressEnter(m)
	m, _ = m.Update(completionMsg(t, cmd))

	if stub.fileCalls != 1 {
		t.Fatalf("fileCalls = %d, want 1", stub.fileCalls)
	}
	if stub.gotPath != "/tmp/photo.png" {
		t.Errorf("path = %q", stub.gotPath)
	}
	if m.attachedFile != "" {
		t.Error("attachment should clear after a successful send")
	}

	entries, _ := store.List()
	if len(entries) != 1 || entries[0].FileName != "photo.png" {
		t.Errorf("entries = %+v, want one entry with fileName photo.png", entries)
	}
}

func TestPane_InputBlockedWhileLoading(t *testing.T) {
	stub := &stubCompleter{text: "x"}
	m, _, _ := newTestPane(t, stub)

	m.textarea.SetValue("first")
	m, cmd := pressEnter(m)
	completionMsg(t, cmd)
	if stub.completeCalls != 1 {
		t.Fatalf("completeCalls = %d, want 1", stub.completeCalls)
	}

	m, cmd = pressEnter(m)
	if cmd != nil {
		t.Error("second enter while loading must not produce a command")
	}
	if stub.completeCalls != 1 {
		t.Error("second enter while loading must not start another request")
	}
}

func TestPane_NewChatResets(t *testing.T) {
	stub := &stubCompleter{text: "Hi there"}
	m, _, _ := newTestPane(t, stub)

	m.textarea.SetValue("Hello")
	m, cmd := pressEnter(m)
	m, _ = m.Update(completionMsg(t, cmd))

	m.textarea.SetValue("/new")
	m, _ = pressEnter(m)

	if m.response != "" || m.lastPrompt != "" || m.textarea.Value() != "" {
		t.Error("new chat should return the pane to the greeting")
	}
	if !m.showingWelcome() {
		t.Error("pane should show the greeting after reset")
	}
}

func TestPane_ViewShowsGreetingThenExchange(t *testing.T) {
	stub := &stubCompleter{text: "Hi there"}
	m, _, _ := newTestPane(t, stub)

	view := m.View()
	if !strings.Contains(view, "Hello, Hardy.") {
		t.Error("greeting view should contain the welcome text")
	}

	m.textarea.SetValue("Hello")
	m, cmd := pressEnter(m)
	m, _ = m.Update(completionMsg(t, cmd))

	view = m.View()
	if !strings.Contains(view, "Hello") || !strings.Contains(view, "Hi there") {
		t.Error("exchange view should contain prompt and response")
	}
}
