package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/catchat/internal/errors"
	"github.com/diogo/catchat/internal/render"
)

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, action string) string {
	if err == nil {
		return ""
	}

	theme := render.TUIThemeOrDefault(render.DefaultTUITheme)
	errorStyle := lipgloss.NewStyle().Foreground(theme.Error)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", action, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if hint := errorHint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}

	return sb.String()
}

func errorHint(err error) string {
	var svcErr *apierrors.ServiceError
	switch {
	case errors.Is(err, apierrors.ErrEmptyMessage):
		return "Pass the message as an argument, with -f, or on stdin"
	case errors.Is(err, context.DeadlineExceeded):
		return "No reply in time. Raise --timeout or check the Cat's LLM settings"
	case apierrors.IsClosedError(err):
		return "The Cat closed the session. Try again"
	case apierrors.IsTimeoutError(err):
		return "Request timed out. Try again or check your connection"
	case apierrors.IsNetworkError(err):
		return "Is the Cat running? Check --host, --port and --secure"
	case errors.As(err, &svcErr):
		return "The Cat reported an error; check its logs"
	}
	return ""
}
