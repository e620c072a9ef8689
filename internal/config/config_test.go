package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHome points the config directory at a temporary HOME
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 1865, cfg.Port)
	assert.Equal(t, "user1", cfg.UserID)
	assert.False(t, cfg.Secure)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tokyonight", cfg.TUITheme)
	assert.Equal(t, "dark", cfg.Markdown.Style)
	assert.NoError(t, cfg.Validate())
}

func TestGetConfigPath(t *testing.T) {
	home := withHome(t)

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".catchat", "config.json"), path)
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	withHome(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Host, cfg.Host)
	assert.Equal(t, DefaultConfig().Port, cfg.Port)
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := withHome(t)

	cfg := DefaultConfig()
	cfg.Host = "cat.internal"
	cfg.Port = 8080
	cfg.UserID = "alice"
	require.NoError(t, SaveConfig(cfg))

	info, err := os.Stat(filepath.Join(home, ".catchat", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "cat.internal", loaded.Host)
	assert.Equal(t, 8080, loaded.Port)
	assert.Equal(t, "alice", loaded.UserID)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := withHome(t)

	dir := filepath.Join(home, ".catchat")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600))

	cfg, err := LoadConfig()
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig().Host, cfg.Host)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	home := withHome(t)

	dir := filepath.Join(home, ".catchat")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	data, err := json.Marshal(map[string]any{"port": 9000})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "user1", cfg.UserID)
}

func TestApplyEnv(t *testing.T) {
	withHome(t)
	t.Setenv("CATCHAT_HOST", "env-host")
	t.Setenv("CATCHAT_PORT", "1999")
	t.Setenv("CATCHAT_SECURE", "true")
	t.Setenv("CATCHAT_USER_ID", "bob")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Host)
	assert.Equal(t, 1999, cfg.Port)
	assert.True(t, cfg.Secure)
	assert.Equal(t, "bob", cfg.UserID)
	// Unset variables leave the defaults alone
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	t.Setenv("CATCHAT_PORT", "not-a-number")

	cfg := DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATCHAT_USER_ID=dotenv-user\n"), 0o600))

	// t.Setenv registers cleanup so the variable loaded below is restored
	t.Setenv("CATCHAT_USER_ID", "")
	require.NoError(t, os.Unsetenv("CATCHAT_USER_ID"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "dotenv-user", os.Getenv("CATCHAT_USER_ID"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty host", func(c *Config) { c.Host = " " }, true},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"empty user", func(c *Config) { c.UserID = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("host", "example.org"))
	require.NoError(t, cfg.Set("port", "443"))
	require.NoError(t, cfg.Set("secure", "true"))
	require.NoError(t, cfg.Set("markdown.style", "light"))

	assert.Equal(t, "example.org", cfg.Host)
	assert.Equal(t, 443, cfg.Port)
	assert.True(t, cfg.Secure)
	assert.Equal(t, "light", cfg.Markdown.Style)

	assert.Error(t, cfg.Set("port", "abc"))
	assert.Error(t, cfg.Set("log_level", "verbose"))
	assert.Error(t, cfg.Set("nope", "x"))
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}
