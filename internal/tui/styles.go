// Package tui provides the terminal user interface for onion.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/hardy/onion/internal/errors"
)

// Color palette (tokyonight)
var (
	colorBorder    = lipgloss.Color("#3b4261")
	colorPrimary   = lipgloss.Color("#7aa2f7")
	colorSecondary = lipgloss.Color("#9ece6a")
	colorAccent    = lipgloss.Color("#bb9af7")
	colorError     = lipgloss.Color("#f7768e")
	colorText      = lipgloss.Color("#c0caf5")
	colorTextDim   = lipgloss.Color("#565f89")
	colorTextMute  = lipgloss.Color("#414868")
)

var (
	// Header styles
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	// Greeting shown before the first exchange
	greetStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	greetSubStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	// Suggestion tiles
	suggestionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Foreground(colorTextDim).
			Padding(0, 1)

	suggestionKeyStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	// Conversation area
	messagesAreaStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1).
			MarginLeft(2)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1)

	// Input area
	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	attachmentStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Italic(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// History panel
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1)

	panelFocusedStyle = panelStyle.
				BorderForeground(colorPrimary)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	panelItemStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	panelSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	panelEmptyStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			Italic(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// Gradient colors for the animated loading bar
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

// FormatError returns a styled error message with detail context from
// structured error types.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	out := errorStyle.Render(fmt.Sprintf("Error: %v", err))
	if status := apierrors.HTTPStatus(err); status > 0 {
		out += dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status))
	}
	if detail := apierrors.Detail(err); detail != "" {
		out += dimStyle.Render(fmt.Sprintf("\n  %s", detail))
	}
	if apierrors.IsTransport(err) {
		out += dimStyle.Render("\n  Hint: Is the proxy running? Start it with 'onion serve'")
	}
	return out
}
