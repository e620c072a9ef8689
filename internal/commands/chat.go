package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/catchat/internal/api"
	"github.com/diogo/catchat/internal/render"
	"github.com/diogo/catchat/internal/tui"
)

// dialTimeout bounds the opening handshake of the chat session
const dialTimeout = 10 * time.Second

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the chat window",
		Long: `Open a session with the Cheshire Cat and start the chat window.

Enter sends the input, Alt+Enter (or Ctrl+J) inserts a newline, Tab moves
between controls, Esc stops waiting for a reply, Ctrl+C quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, flags)
		},
	}
}

// runChat owns the session for the lifetime of the chat window
func runChat(cmd *cobra.Command, deps *Dependencies, flags *globalFlags) error {
	cfg, err := loadSettings(cmd, flags)
	if err != nil {
		return err
	}

	logger := deps.NewLogger(cfg)
	defer func() { _ = logger.Sync() }()

	settings := settingsFromConfig(cfg)
	stderr := cmd.ErrOrStderr()

	spin := newSpinner(stderr, "Connecting to the Cat")
	spin.start()

	dialCtx, cancel := context.WithTimeout(cmd.Context(), dialTimeout)
	client, err := deps.Dial(dialCtx, settings, api.WithLogger(logger))
	cancel()
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(stderr, formatErrorMessage(err, "Connection failed"))
		return fmt.Errorf("failed to connect: %w", err)
	}
	spin.stopWithSuccess("Connected to " + client.Endpoint())

	defer func() {
		if err := client.Close(); err != nil {
			logger.Debug("close failed", zap.Error(err))
		}
	}()

	return deps.TUI.RunChat(cmd.Context(), client,
		tui.WithLogger(logger),
		tui.WithTheme(cfg.TUITheme),
		tui.WithRenderOptions(render.OptionsFromConfig(&cfg)),
		tui.WithClipboard(deps.Clipboard),
	)
}
