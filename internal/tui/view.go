package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/catchat/internal/errors"
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.styles.waiting.Render("  Initializing...")
	}

	contentWidth := m.viewport.Width + 4
	sections := []string{m.renderHeader(contentWidth)}

	// History
	historyRow := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.label.Render("History"),
		"  ",
		m.renderButton(focusClearHistory, "Clear", true),
	)
	sections = append(sections, historyRow)

	if m.pickerOpen {
		picker := lipgloss.JoinVertical(lipgloss.Left,
			m.styles.label.Render("Select a PDF"),
			m.picker.View(),
		)
		sections = append(sections, m.styles.picker.Width(contentWidth).Render(picker))
	} else {
		body := m.viewport.View()
		if len(m.messages) == 0 {
			body = m.renderWelcome()
		}
		sections = append(sections, m.styles.history.
			Width(contentWidth).
			Height(m.viewport.Height).
			Render(body))
	}

	// Input
	inputLabel := m.styles.label.Render("Input")
	if m.inFlight != "" {
		inputLabel += "  " + m.spinner.View() + m.styles.waiting.Render(" waiting for the Cat")
	}
	inputBox := m.styles.input
	if m.focus == focusInput {
		inputBox = m.styles.inputFocus
	}
	sections = append(sections,
		inputLabel,
		inputBox.Width(contentWidth).Render(m.textarea.View()),
	)

	// Controls
	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		m.renderCheckbox(focusSearchWeb, "Search web", m.searchWeb),
		"  ",
		m.renderButton(focusClearInput, "Clear", true),
		" ",
		m.renderButton(focusSend, "Send", m.sendEnabled()),
	)
	sections = append(sections, controls)

	// Attach row
	path := m.styles.pathEmpty.Render("no file selected")
	if m.attachPath != "" {
		path = m.styles.path.Render(m.attachPath)
	}
	attach := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.label.Render("File: "),
		path,
		"  ",
		m.renderButton(focusAttachSelect, "Select", true),
		"  ",
		m.renderCheckbox(focusAttachToggle, "Attach", m.attachEnabled),
	)
	sections = append(sections, attach)

	sections = append(sections, m.help.View(m.keys))

	if m.err != nil {
		sections = append(sections, m.formatError(m.err))
	} else if m.note != "" {
		sections = append(sections, m.styles.note.Render(m.note))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	state := m.styles.online.Render("● connected")
	if !m.connected {
		state = m.styles.offline.Render("● disconnected")
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.title.Render("Cheshire Cat"),
		m.styles.subtitle.Render("  "+m.client.Endpoint()+"  "),
		state,
	)
	return m.styles.header.Width(width).Render(content)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width
	text := m.styles.welcome.Width(width).Render("Type a message below and press Enter.")

	top := (m.viewport.Height - lipgloss.Height(text)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + text
}

func (m Model) renderButton(c control, label string, enabled bool) string {
	switch {
	case !enabled:
		return m.styles.buttonDisabled.Render(label)
	case m.focus == c:
		return m.styles.buttonFocused.Render(label)
	default:
		return m.styles.button.Render(label)
	}
}

func (m Model) renderCheckbox(c control, label string, checked bool) string {
	box := "[ ] "
	if checked {
		box = "[x] "
	}
	if m.focus == c {
		return m.styles.checkboxFocus.Render(box + label)
	}
	return m.styles.checkbox.Render(box + label)
}

// formatError formats an error with a hint for display
func (m Model) formatError(err error) string {
	var sb strings.Builder
	sb.WriteString(m.styles.err.Render(fmt.Sprintf("Error: %v", err)))

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.detail.Render("Endpoint: " + endpoint))
	}

	var svcErr *apierrors.ServiceError
	switch {
	case apierrors.IsClosedError(err):
		sb.WriteString("\n")
		sb.WriteString(m.styles.hint.Render("The session ended. Restart catchat to reconnect"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString("\n")
		sb.WriteString(m.styles.hint.Render("The write timed out. Try again"))
	case apierrors.IsNetworkError(err):
		sb.WriteString("\n")
		sb.WriteString(m.styles.hint.Render("Check that the Cat is running and reachable"))
	case errors.As(err, &svcErr):
		sb.WriteString("\n")
		sb.WriteString(m.styles.hint.Render("The Cat reported an error; see its logs"))
	}

	return sb.String()
}
