package render

import "testing"

func TestTUIThemesComplete(t *testing.T) {
	for _, name := range TUIThemeNames() {
		theme, ok := LookupTUITheme(name)
		if !ok {
			t.Fatalf("theme %s listed but not found", name)
		}
		if theme.Name != name {
			t.Errorf("theme %s has name %s", name, theme.Name)
		}
		for field, color := range map[string]string{
			"Surface":   string(theme.Surface),
			"Border":    string(theme.Border),
			"Primary":   string(theme.Primary),
			"Secondary": string(theme.Secondary),
			"Error":     string(theme.Error),
			"Text":      string(theme.Text),
			"TextDim":   string(theme.TextDim),
		} {
			if color == "" {
				t.Errorf("theme %s has empty %s", name, field)
			}
		}
	}
}

func TestTUIThemeOrDefault(t *testing.T) {
	if got := TUIThemeOrDefault("nord").Name; got != "nord" {
		t.Errorf("expected nord, got %s", got)
	}
	if got := TUIThemeOrDefault("nope").Name; got != DefaultTUITheme {
		t.Errorf("expected fallback to %s, got %s", DefaultTUITheme, got)
	}
}

func TestTUIThemeNamesSorted(t *testing.T) {
	names := TUIThemeNames()
	want := []string{"catppuccin", "dracula", "nord", "tokyonight"}
	if len(names) != len(want) {
		t.Fatalf("expected %d themes, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
