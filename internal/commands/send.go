package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/catchat/internal/api"
	"github.com/diogo/catchat/internal/config"
	apierrors "github.com/diogo/catchat/internal/errors"
	"github.com/diogo/catchat/internal/render"
)

type sendFlags struct {
	file    string
	output  string
	raw     bool
	copy    bool
	timeout time.Duration
}

func newSendCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	sf := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send one message and print the reply",
		Long: `Send a single message and print the first complete reply.

The message is taken from the argument, from --file, or from stdin.
Replies are rendered as markdown on a terminal and printed raw otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readMessage(cmd, deps, sf, args)
			if err != nil {
				return err
			}
			return runSend(cmd, deps, flags, sf, text)
		},
	}

	cmd.Flags().StringVarP(&sf.file, "file", "f", "", "Read the message from a file")
	cmd.Flags().StringVarP(&sf.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().BoolVar(&sf.raw, "raw", false, "Print the reply without decoration")
	cmd.Flags().BoolVar(&sf.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().DurationVar(&sf.timeout, "timeout", 2*time.Minute, "How long to wait for the reply")

	return cmd
}

// readMessage picks the message from --file, the argument or stdin
func readMessage(cmd *cobra.Command, deps *Dependencies, sf *sendFlags, args []string) (string, error) {
	var text string
	switch {
	case sf.file != "":
		data, err := os.ReadFile(sf.file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	case len(args) > 0:
		text = args[0]
	case deps.StdinPiped():
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	if strings.TrimSpace(text) == "" {
		return "", apierrors.ErrEmptyMessage
	}
	return text, nil
}

func runSend(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, sf *sendFlags, text string) error {
	cfg, err := loadSettings(cmd, flags)
	if err != nil {
		return err
	}

	logger := deps.NewLogger(cfg)
	defer func() { _ = logger.Sync() }()

	decorated := !sf.raw && deps.IsTTY()
	stderr := cmd.ErrOrStderr()

	ctx, cancel := context.WithTimeout(cmd.Context(), sf.timeout)
	defer cancel()

	var spin *spinner
	if decorated {
		spin = newSpinner(stderr, "Connecting to the Cat")
		spin.start()
	}

	client, err := deps.Dial(ctx, settingsFromConfig(cfg), api.WithLogger(logger))
	if err != nil {
		spin.stopWithError()
		if decorated {
			fmt.Fprintln(stderr, formatErrorMessage(err, "Connection failed"))
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Send(ctx, text); err != nil {
		spin.stopWithError()
		if decorated {
			fmt.Fprintln(stderr, formatErrorMessage(err, "Send failed"))
		}
		return fmt.Errorf("send failed: %w", err)
	}
	logger.Debug("message sent", zap.Int("length", len(text)))

	if decorated {
		spin.stopWithSuccess("Sent")
		spin = newSpinner(stderr, "Waiting for the Cat")
		spin.start()
	}

	frame, err := awaitReply(ctx, client)
	if err != nil {
		spin.stopWithError()
		if decorated {
			fmt.Fprintln(stderr, formatErrorMessage(err, "No reply"))
		}
		return fmt.Errorf("no reply: %w", err)
	}
	spin.stopWithSuccess("Done")

	return writeReply(cmd, deps, cfg, sf, decorated, frame.Content())
}

// awaitReply returns the first frame that completes a reply. Token and
// notification frames are skipped; error frames fail.
func awaitReply(ctx context.Context, client api.Client) (api.Frame, error) {
	for {
		select {
		case <-ctx.Done():
			return api.Frame{}, ctx.Err()
		case frame, ok := <-client.Messages():
			if !ok {
				if err := client.Err(); err != nil {
					return api.Frame{}, err
				}
				return api.Frame{}, apierrors.ErrConnectionClosed
			}
			if !frame.IsFinal() {
				continue
			}
			if err := frame.Err(); err != nil {
				return frame, err
			}
			return frame, nil
		}
	}
}

func writeReply(cmd *cobra.Command, deps *Dependencies, cfg config.Config, sf *sendFlags, decorated bool, text string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	theme := render.TUIThemeOrDefault(cfg.TUITheme)
	success := lipgloss.NewStyle().Foreground(theme.Secondary)

	if sf.copy || cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(theme.Warning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if decorated {
			fmt.Fprintln(stderr, success.Render("✓ Copied to clipboard"))
		}
	}

	if sf.output != "" {
		if err := os.WriteFile(sf.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(stderr, success.Render(fmt.Sprintf("✓ Reply saved to %s", sf.output)))
		}
		return nil
	}

	if !decorated {
		fmt.Fprint(stdout, text)
		return nil
	}

	bubbleWidth := deps.TerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	label := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Cheshire Cat")
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 1).
		Width(bubbleWidth).
		Render(render.Reply(text, render.OptionsFromConfig(&cfg).WithWidth(bubbleWidth-4)))

	fmt.Fprintln(stdout, label)
	fmt.Fprintln(stdout, bubble)
	return nil
}
