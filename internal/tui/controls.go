package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// control identifies a focusable widget. Tab order follows declaration order.
type control int

const (
	focusInput control = iota
	focusSearchWeb
	focusClearInput
	focusSend
	focusClearHistory
	focusAttachSelect
	focusAttachToggle
	controlCount
)

var controlNames = map[control]string{
	focusInput:        "input",
	focusSearchWeb:    "search web",
	focusClearInput:   "clear input",
	focusSend:         "send",
	focusClearHistory: "clear history",
	focusAttachSelect: "select file",
	focusAttachToggle: "attach",
}

func (c control) String() string {
	return controlNames[c]
}

func (c control) next() control {
	return (c + 1) % controlCount
}

func (c control) prev() control {
	return (c + controlCount - 1) % controlCount
}

// setFocus moves focus to c, blurring the input when it leaves
func (m *Model) setFocus(c control) tea.Cmd {
	m.focus = c
	if c == focusInput {
		return m.textarea.Focus()
	}
	m.textarea.Blur()
	return nil
}

// activate presses the button or toggles the checkbox c
func (m Model) activate(c control) (tea.Model, tea.Cmd) {
	switch c {
	case focusSend:
		return m.generate()

	case focusClearInput:
		m.textarea.Reset()

	case focusClearHistory:
		m.messages = nil
		m.lastReply = ""
		m.refreshViewport()

	case focusSearchWeb:
		m.searchWeb = !m.searchWeb

	case focusAttachToggle:
		m.attachEnabled = !m.attachEnabled

	case focusAttachSelect:
		m.pickerOpen = true
		return m, m.picker.Init()
	}
	return m, nil
}
