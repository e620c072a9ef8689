package render

import (
	"os"

	"github.com/diogo/catchat/internal/config"
)

// StyleEnv overrides the configured markdown style.
const StyleEnv = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from the user configuration.
// A nil config yields the defaults; GLAMOUR_STYLE wins over both.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()

	if cfg != nil {
		md := cfg.Markdown
		if md.Style != "" {
			opts.Style = md.Style
		}
		opts.EnableEmoji = md.EnableEmoji
		opts.PreserveNewLines = md.PreserveNewLines
		opts.TableWrap = md.TableWrap
		opts.InlineTableLinks = md.InlineTableLinks
	}

	if style := os.Getenv(StyleEnv); style != "" {
		opts.Style = style
	}
	return opts
}
