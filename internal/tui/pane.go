package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hardy/onion/internal/bus"
	"github.com/hardy/onion/internal/history"
	"github.com/hardy/onion/internal/render"
)

// Completer defines the completion operations the pane needs.
type Completer interface {
	Complete(prompt string) (string, error)
	CompleteFile(path, prompt string) (string, error)
}

type (
	responseMsg struct {
		prompt   string
		fileName string
		text     string
	}
	errMsg struct {
		err error
	}
	animationTickMsg time.Time
)

// suggestions are the starter prompts offered before the first exchange.
var suggestions = []string{
	"Suggest beautiful places to see on an upcoming road trip",
	"Briefly summarize this concept: urban planning",
	"Brainstorm team bonding activities for our work retreat",
	"Improve the readability of the following code",
}

const footerText = "Onions may display inaccurate info, including about people, so double-check its responses."

// paneModel is the conversation pane. It shows one exchange at a time:
// the last submitted prompt and its response, or a loading animation,
// or the greeting with suggestion tiles when neither exists.
type paneModel struct {
	client   Completer
	store    *history.Store
	notifier *bus.Notifier

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	lastPrompt   string
	response     string
	attachedFile string
	loading      bool
	err          error

	animationFrame int

	width  int
	height int
	ready  bool
}

func newPaneModel(client Completer, store *history.Store, notifier *bus.Notifier) paneModel {
	ta := textarea.New()
	ta.Placeholder = "Ask me anything..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return paneModel{
		client:   client,
		store:    store,
		notifier: notifier,
		textarea: ta,
		spinner:  s,
	}
}

func (m paneModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func (m paneModel) setSize(width, height int) paneModel {
	m.width = width
	m.height = height

	headerHeight := 2
	inputHeight := 5
	statusHeight := 3
	vpHeight := height - headerHeight - inputHeight - statusHeight
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := width - 4
	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
	m.updateViewport()
	return m
}

// showingWelcome reports whether the greeting and suggestion tiles are
// visible: no exchange on screen and no request in flight.
func (m paneModel) showingWelcome() bool {
	return !m.loading && m.response == ""
}

func (m paneModel) Update(msg tea.Msg) (paneModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		key := msg.String()

		// Digits pick a suggestion tile while the greeting is on screen.
		if m.showingWelcome() && strings.TrimSpace(m.textarea.Value()) == "" {
			if len(key) == 1 && key >= "1" && key <= "4" {
				idx := int(key[0] - '1')
				m.textarea.SetValue(suggestions[idx])
				return m.submit(suggestions[idx])
			}
		}

		switch key {
		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
				return m, tea.Quit
			}
			if input == "/new" {
				return m.reset(), nil
			}
			if input == "/attach" {
				m.attachedFile = ""
				m.textarea.Reset()
				return m, nil
			}
			if path, ok := strings.CutPrefix(input, "/attach "); ok {
				m.attachedFile = strings.TrimSpace(path)
				m.textarea.Reset()
				return m, nil
			}
			return m.submit(input)

		case "ctrl+n":
			return m.reset(), nil
		}

	case responseMsg:
		m.loading = false
		m.err = nil
		m.response = msg.text
		m.textarea.Reset()
		m.attachedFile = ""
		m.persist(msg)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case errMsg:
		// The draft stays in the textarea so the prompt can be retried.
		m.loading = false
		m.err = msg.err
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a completion request for prompt. The draft is kept until
// the response arrives; a failed request leaves it in place.
func (m paneModel) submit(prompt string) (paneModel, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.response = ""
	m.lastPrompt = prompt
	m.animationFrame = 0
	m.updateViewport()

	file := m.attachedFile
	client := m.client
	send := func() tea.Msg {
		var text string
		var err error
		var fileName string
		if file != "" {
			fileName = filepath.Base(file)
			text, err = client.CompleteFile(file, prompt)
		} else {
			text, err = client.Complete(prompt)
		}
		if err != nil {
			return errMsg{err: err}
		}
		return responseMsg{prompt: prompt, fileName: fileName, text: text}
	}

	return m, tea.Batch(send, m.spinner.Tick, animationTick())
}

// persist appends the finished exchange and announces the new history.
// Storage failures are swallowed; the conversation on screen is already
// complete and the next append may still succeed.
func (m paneModel) persist(msg responseMsg) {
	if _, err := m.store.Append(msg.prompt, msg.text, msg.fileName); err != nil {
		return
	}
	entries, err := m.store.List()
	if err != nil {
		return
	}
	m.notifier.Publish(bus.HistoryUpdated{Entries: entries})
}

// applySelection restores a past exchange into the pane without any
// network call. Ignored while a request is in flight.
func (m paneModel) applySelection(entry history.Entry) paneModel {
	if m.loading {
		return m
	}
	m.textarea.SetValue(entry.Prompt)
	m.lastPrompt = entry.Prompt
	m.response = entry.Response
	m.err = nil
	m.updateViewport()
	return m
}

// reset returns the pane to the greeting, like starting a new chat.
func (m paneModel) reset() paneModel {
	if m.loading {
		return m
	}
	m.textarea.Reset()
	m.lastPrompt = ""
	m.response = ""
	m.attachedFile = ""
	m.err = nil
	m.updateViewport()
	return m
}

func (m *paneModel) updateViewport() {
	if !m.ready {
		return
	}
	if m.showingWelcome() {
		m.viewport.SetContent(m.renderWelcome())
		return
	}

	bubbleWidth := m.viewport.Width - 4
	var content strings.Builder

	content.WriteString(userLabelStyle.Render("You") + "\n")
	content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(m.lastPrompt) + "\n\n")

	if m.response != "" {
		content.WriteString(assistantLabelStyle.Render("Onion") + "\n")
		rendered, err := render.MarkdownWithWidth(m.response, bubbleWidth-4)
		if err != nil {
			rendered = m.response
		}
		rendered = strings.TrimRight(rendered, "\n")
		content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	}

	m.viewport.SetContent(content.String())
}

func (m paneModel) renderWelcome() string {
	width := m.viewport.Width - 2

	greet := greetStyle.Render("Hello, Hardy.")
	sub := greetSubStyle.Render("How can I help you today?")

	var tiles []string
	for i, s := range suggestions {
		key := suggestionKeyStyle.Render(fmt.Sprintf("[%d] ", i+1))
		tiles = append(tiles, suggestionStyle.Width(width).Render(key+s))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		greet,
		sub,
		"",
		lipgloss.JoinVertical(lipgloss.Left, tiles...),
	)
}

func (m paneModel) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	frame := m.animationFrame
	spinChar := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render("█"))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Thinking ")
	return fmt.Sprintf("%s %s%s", spinChar, bar.String(), text)
}

func (m paneModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("Onion"),
		subtitleStyle.Render("  gemini-2.5-flash"),
	)
	sections = append(sections, header)

	messages := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messages)

	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		label := inputLabelStyle.Render("You")
		if m.attachedFile != "" {
			label += attachmentStyle.Render("  [" + filepath.Base(m.attachedFile) + "]")
		}
		inputContent = lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	sections = append(sections, footerStyle.Width(contentWidth).Align(lipgloss.Center).Render(footerText))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
