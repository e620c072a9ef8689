package commands

import (
	"context"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/catchat/internal/api"
	"github.com/diogo/catchat/internal/config"
	"github.com/diogo/catchat/internal/logging"
	"github.com/diogo/catchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, client api.Client, opts ...tui.Option) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Dial opens a session with the service.
	Dial func(ctx context.Context, settings api.Settings, opts ...api.ClientOption) (api.Client, error)

	// Status probes the service HTTP root.
	Status func(ctx context.Context, settings api.Settings, timeout time.Duration) (*api.ServiceStatus, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	NewLogger     func(cfg config.Config) *zap.Logger
	Clipboard     func(text string) error
	StdinPiped    func() bool
	IsTTY         func() bool
	TerminalWidth func() int
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, client api.Client, opts ...tui.Option) error {
	return tui.RunChat(ctx, client, opts...)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Dial:          dialClient,
		Status:        probeStatus,
		TUI:           &DefaultTUI{},
		NewLogger:     fileLogger,
		Clipboard:     clipboard.WriteAll,
		StdinPiped:    stdinPiped,
		IsTTY:         isStdoutTTY,
		TerminalWidth: terminalWidth,
	}
}

func dialClient(ctx context.Context, settings api.Settings, opts ...api.ClientOption) (api.Client, error) {
	conn, err := api.Dial(ctx, settings, opts...)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func probeStatus(ctx context.Context, settings api.Settings, timeout time.Duration) (*api.ServiceStatus, error) {
	seconds := int(timeout.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	client, err := api.NewHTTPClient(seconds)
	if err != nil {
		return nil, err
	}
	return api.Status(ctx, client, settings)
}

func fileLogger(cfg config.Config) *zap.Logger {
	return logging.NewOrNop(logging.FileConfig(cfg.LogLevel, cfg.LogFile))
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// terminalWidth returns the terminal width or a default value
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
