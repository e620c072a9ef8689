package commands

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/catchat/internal/render"
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// spinner animates a status line on w until stopped. A nil spinner is a
// no-op, which keeps raw output free of decorations.
type spinner struct {
	w       io.Writer
	message string
	theme   render.TUITheme

	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		theme:   render.TUIThemeOrDefault(render.DefaultTUITheme),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	if s == nil {
		return
	}
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	char := lipgloss.NewStyle().
		Foreground(s.theme.Accent).
		Bold(true).
		Render(spinnerFrames[s.frame%len(spinnerFrames)])
	msg := lipgloss.NewStyle().Foreground(s.theme.Text).Render(s.message)

	fmt.Fprintf(s.w, "\r\033[K%s %s", char, msg)
}

func (s *spinner) halt() {
	s.mu.Lock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
	s.mu.Unlock()
	<-s.done
}

func (s *spinner) stopWithSuccess(message string) {
	if s == nil {
		return
	}
	s.halt()

	check := lipgloss.NewStyle().Foreground(s.theme.Secondary).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(s.theme.Secondary).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", check, msg)
}

func (s *spinner) stopWithError() {
	if s == nil {
		return
	}
	s.halt()
}
