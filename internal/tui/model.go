package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/diogo/catchat/internal/api"
	apierrors "github.com/diogo/catchat/internal/errors"
	"github.com/diogo/catchat/internal/render"
)

// sendTimeout bounds a single outbound write from the UI
const sendTimeout = 15 * time.Second

// Message types for the TUI
type (
	// frameMsg carries one inbound payload, still serialized
	frameMsg struct {
		payload string
	}
	// disconnectedMsg is delivered once when the frame channel closes
	disconnectedMsg struct {
		err error
	}
	// sendResultMsg reports the outcome of a dispatched send
	sendResultMsg struct {
		id  string
		err error
	}
	// attachSelectedMsg is emitted when the picker chooses a file
	attachSelectedMsg struct {
		path string
	}
)

type role int

const (
	roleUser role = iota
	roleCat
)

// chatMessage is one entry of the on-screen transcript
type chatMessage struct {
	role    role
	content string
	failed  bool
}

// Model is the chat window state
type Model struct {
	client api.Client
	logger *zap.Logger
	keys   keyMap
	styles styles

	renderOpts render.Options
	copyText   func(string) error

	// Widgets
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	picker   filepicker.Model

	// Controls
	focus         control
	searchWeb     bool
	attachEnabled bool
	attachPath    string
	pickerOpen    bool

	// Session state
	messages  []chatMessage
	inFlight  string
	connected bool
	lastReply string
	note      string
	err       error

	ready  bool
	width  int
	height int
}

// Option configures the chat model
type Option func(*Model)

// WithLogger sets the logger used for controller events
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTheme selects the color theme by name
func WithTheme(name string) Option {
	return func(m *Model) {
		m.styles = newStyles(render.TUIThemeOrDefault(name))
	}
}

// WithRenderOptions sets the markdown options for replies
func WithRenderOptions(opts render.Options) Option {
	return func(m *Model) {
		m.renderOpts = opts
	}
}

// WithClipboard replaces the clipboard writer
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) {
		if fn != nil {
			m.copyText = fn
		}
	}
}

// WithStartDir sets the directory the file picker opens in
func WithStartDir(dir string) Option {
	return func(m *Model) {
		if dir != "" {
			m.picker.CurrentDirectory = dir
		}
	}
}

// NewModel creates the chat window bound to client
func NewModel(client api.Client, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask the Cat..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	// enter is handled by the model
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{}

	s := spinner.New()
	s.Spinner = spinner.Dot

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.CurrentDirectory = "."

	m := Model{
		client:     client,
		logger:     zap.NewNop(),
		keys:       defaultKeyMap(),
		styles:     newStyles(render.TUIThemeOrDefault(render.DefaultTUITheme)),
		renderOpts: render.DefaultOptions(),
		copyText:   clipboard.WriteAll,
		textarea:   ta,
		viewport:   vp,
		spinner:    s,
		help:       help.New(),
		picker:     fp,
		connected:  true,
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.logger = m.logger.With(zap.String("user_id", client.UserID()))
	m.spinner.Style = m.styles.waiting
	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(m.styles.theme.Text)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(m.styles.theme.TextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle

	return m
}

// Init starts the cursor blink and the frame subscription
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForFrame(m.client),
	)
}

// waitForFrame blocks on the client channel and converts one frame into a
// message. It must be re-issued after each frame.
func waitForFrame(client api.Client) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-client.Messages()
		if !ok {
			return disconnectedMsg{err: client.Err()}
		}
		return frameMsg{payload: frame.String()}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.pickerOpen {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case frameMsg:
		m.handleFrame(msg.payload)
		return m, waitForFrame(m.client)

	case disconnectedMsg:
		m.connected = false
		m.inFlight = ""
		m.err = msg.err
		if m.err == nil {
			m.err = apierrors.ErrConnectionClosed
		}
		m.logger.Warn("connection lost", zap.Error(m.err))
		return m, nil

	case sendResultMsg:
		if msg.err != nil {
			m.logger.Warn("send failed", zap.String("send_id", msg.id), zap.Error(msg.err))
			if msg.id == m.inFlight {
				m.inFlight = ""
			}
			m.err = msg.err
			return m, nil
		}
		m.logger.Debug("message sent", zap.String("send_id", msg.id))
		return m, nil

	case attachSelectedMsg:
		m.attachPath = msg.path
		m.pickerOpen = false
		return m, nil

	case spinner.TickMsg:
		if m.inFlight != "" {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Picker directory reads and cursor blinks
	if m.pickerOpen {
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Abandon):
		if m.inFlight != "" {
			m.logger.Info("stopped waiting for reply", zap.String("send_id", m.inFlight))
			m.inFlight = ""
			m.note = "Stopped waiting for a reply"
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Copy):
		m.copyLastReply()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		cmd = m.setFocus(m.focus.next())
		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		cmd = m.setFocus(m.focus.prev())
		return m, cmd

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		return m, nil
	}

	if m.focus != focusInput {
		if key.Matches(msg, m.keys.Activate) {
			return m.activate(m.focus)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		if strings.TrimSpace(m.textarea.Value()) == "/quit" {
			return m, tea.Quit
		}
		return m.generate()

	case key.Matches(msg, m.keys.Newline):
		m.textarea.InsertString("\n")
		return m, nil
	}

	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ClosePanel) {
		m.pickerOpen = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, func() tea.Msg { return attachSelectedMsg{path: path} }
	}
	return m, cmd
}

// sendEnabled reports whether the send control accepts a new message
func (m Model) sendEnabled() bool {
	return m.connected && m.inFlight == ""
}

// generate dispatches the input text and disables the send control before
// any reply can arrive
func (m Model) generate() (tea.Model, tea.Cmd) {
	if !m.sendEnabled() {
		return m, nil
	}

	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	id := uuid.NewString()
	m.inFlight = id
	m.err = nil
	m.note = ""
	m.messages = append(m.messages, chatMessage{role: roleUser, content: text})
	m.textarea.Reset()
	m.refreshViewport()

	m.logger.Debug("dispatching message", zap.String("send_id", id), zap.Int("length", len(text)))

	return m, tea.Batch(m.send(id, text), m.spinner.Tick)
}

func (m Model) send(id, text string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		return sendResultMsg{id: id, err: client.Send(ctx, text)}
	}
}

// handleFrame appends the content of a JSON object payload and re-enables
// the send control. Anything else is dropped and changes nothing.
func (m *Model) handleFrame(payload string) {
	if !gjson.Valid(payload) || !gjson.Parse(payload).IsObject() {
		m.logger.Warn("dropping malformed payload",
			zap.String("send_id", m.inFlight),
			zap.Int("length", len(payload)),
		)
		return
	}

	content := gjson.Get(payload, api.PathContent).String()
	isError := gjson.Get(payload, api.PathType).String() == api.FrameTypeError

	m.messages = append(m.messages, chatMessage{role: roleCat, content: content, failed: isError})
	m.inFlight = ""
	if isError {
		m.err = apierrors.NewServiceError(
			gjson.Get(payload, api.PathName).String(),
			gjson.Get(payload, api.PathDescription).String(),
		)
	} else {
		m.lastReply = content
	}
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *Model) copyLastReply() {
	if m.lastReply == "" {
		m.note = "Nothing to copy yet"
		return
	}
	if err := m.copyText(m.lastReply); err != nil {
		m.err = err
		return
	}
	m.note = "Reply copied to clipboard"
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	// header 3, labels 2, input 5, control rows 2, help 1, error 2
	vpHeight := height - 17
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.viewport.Width = contentWidth - 4
	m.viewport.Height = vpHeight
	m.textarea.SetWidth(contentWidth - 4)
	m.help.Width = contentWidth
	m.ready = true
	m.refreshViewport()
}

// refreshViewport rebuilds the transcript content
func (m *Model) refreshViewport() {
	var b strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	opts := m.renderOpts.WithWidth(bubbleWidth - 4)

	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.role {
		case roleUser:
			b.WriteString(m.styles.userLabel.Render("You"))
			b.WriteString("\n")
			b.WriteString(m.styles.userBubble.Width(bubbleWidth).Render(msg.content))
		case roleCat:
			b.WriteString(m.styles.catLabel.Render("Cheshire Cat"))
			b.WriteString("\n")
			bubble := m.styles.catBubble
			if msg.failed {
				bubble = m.styles.catErrorBubble
			}
			b.WriteString(bubble.Width(bubbleWidth).Render(render.Reply(msg.content, opts)))
		}
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// RunChat runs the chat window until the user quits or ctx is cancelled.
// The caller owns the client and closes it afterwards.
func RunChat(ctx context.Context, client api.Client, opts ...Option) error {
	p := tea.NewProgram(
		NewModel(client, opts...),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
