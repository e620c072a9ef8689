// Package tui provides the terminal chat window for catchat.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/catchat/internal/render"
)

// styles holds every lipgloss style of the chat window, built from a theme
type styles struct {
	theme render.TUITheme

	header   lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	online   lipgloss.Style
	offline  lipgloss.Style

	label      lipgloss.Style
	history    lipgloss.Style
	welcome    lipgloss.Style
	input      lipgloss.Style
	inputFocus lipgloss.Style

	userLabel      lipgloss.Style
	userBubble     lipgloss.Style
	catLabel       lipgloss.Style
	catBubble      lipgloss.Style
	catErrorBubble lipgloss.Style

	button         lipgloss.Style
	buttonFocused  lipgloss.Style
	buttonDisabled lipgloss.Style
	checkbox       lipgloss.Style
	checkboxFocus  lipgloss.Style
	path           lipgloss.Style
	pathEmpty      lipgloss.Style

	picker  lipgloss.Style
	waiting lipgloss.Style
	note    lipgloss.Style
	err     lipgloss.Style
	hint    lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(theme render.TUITheme) styles {
	s := styles{theme: theme}

	s.header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2)
	s.title = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
	s.subtitle = lipgloss.NewStyle().
		Foreground(theme.TextDim)
	s.online = lipgloss.NewStyle().
		Foreground(theme.Secondary)
	s.offline = lipgloss.NewStyle().
		Foreground(theme.Error)

	s.label = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
	s.history = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	s.welcome = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Align(lipgloss.Center)
	s.input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	s.inputFocus = s.input.
		BorderForeground(theme.Primary)

	s.userLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		MarginLeft(4)
	s.userBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginLeft(4)
	s.catLabel = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)
	s.catBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginRight(4)
	s.catErrorBubble = s.catBubble.
		BorderForeground(theme.Error)

	s.button = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Surface).
		Padding(0, 2)
	s.buttonFocused = s.button.
		Foreground(theme.Surface).
		Background(theme.Primary).
		Bold(true)
	s.buttonDisabled = s.button.
		Foreground(theme.TextDim)
	s.checkbox = lipgloss.NewStyle().
		Foreground(theme.Text)
	s.checkboxFocus = s.checkbox.
		Foreground(theme.Primary).
		Bold(true)
	s.path = lipgloss.NewStyle().
		Foreground(theme.Text).
		Underline(true)
	s.pathEmpty = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true)

	s.picker = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 1)
	s.waiting = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)
	s.note = lipgloss.NewStyle().
		Foreground(theme.Secondary)
	s.err = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)
	s.hint = lipgloss.NewStyle().
		Foreground(theme.Primary).
		PaddingLeft(2)
	s.detail = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		PaddingLeft(2)

	return s
}
