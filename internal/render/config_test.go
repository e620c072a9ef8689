package render

import (
	"testing"

	"github.com/diogo/catchat/internal/config"
)

func TestOptionsFromConfig_Nil(t *testing.T) {
	t.Setenv(StyleEnv, "")

	opts := OptionsFromConfig(nil)
	if opts != DefaultOptions() {
		t.Errorf("expected defaults, got %+v", opts)
	}
}

func TestOptionsFromConfig_Values(t *testing.T) {
	t.Setenv(StyleEnv, "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "light"
	cfg.Markdown.EnableEmoji = false
	cfg.Markdown.InlineTableLinks = true

	opts := OptionsFromConfig(&cfg)
	if opts.Style != "light" {
		t.Errorf("expected Style=light, got %s", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("expected EnableEmoji=false")
	}
	if !opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=true")
	}
	if opts.Width != 80 {
		t.Errorf("expected default width, got %d", opts.Width)
	}
}

func TestOptionsFromConfig_EnvOverride(t *testing.T) {
	t.Setenv(StyleEnv, "dracula")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "light"

	if got := OptionsFromConfig(&cfg).Style; got != "dracula" {
		t.Errorf("expected env style to win, got %s", got)
	}
}
