package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithStyle("light").
		WithEmoji(false).
		WithPreserveNewLines(false)

	if opts.Width != 100 || opts.Style != "light" || opts.EnableEmoji || opts.PreserveNewLines {
		t.Errorf("chained options not applied: %+v", opts)
	}
	if !opts.TableWrap {
		t.Error("untouched option should keep its default")
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{"heading", "# Hello World", 80, "Hello"},
		{"bold", "This is **bold** text", 80, "bold"},
		{"code_block", "```go\nfmt.Println(\"meow\")\n```", 80, "Println"},
		{"list", "- cheshire\n- cat", 80, "cheshire"},
		{"narrow_width", "# Long heading that should wrap", 20, "Long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions().WithWidth(tc.width))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownWithWidth(t *testing.T) {
	output, err := MarkdownWithWidth("# Hello\n\nThis is a test.", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "test") {
		t.Errorf("output should contain 'test', got: %s", output)
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	_, err := Markdown("# Test", DefaultOptions().WithStyle("no/such/style.json"))
	if err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestReply(t *testing.T) {
	out := Reply("Hello **cat**", DefaultOptions())
	if !strings.Contains(out, "cat") {
		t.Errorf("expected rendered reply, got: %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("expected trimmed reply, got: %q", out)
	}
}

func TestReplyFallsBackToRaw(t *testing.T) {
	raw := "plain *text*"
	if got := Reply(raw, DefaultOptions().WithStyle("no/such/style.json")); got != raw {
		t.Errorf("expected raw fallback, got: %q", got)
	}
}
