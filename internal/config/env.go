package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment override (CATCHAT_HOST, ...)
const EnvPrefix = "catchat"

// envOverrides holds values read from the environment. Nil pointers mean
// the variable was not set and the file/default value is kept.
type envOverrides struct {
	Host     *string `envconfig:"HOST"`
	Port     *int    `envconfig:"PORT"`
	Secure   *bool   `envconfig:"SECURE"`
	UserID   *string `envconfig:"USER_ID"`
	LogLevel *string `envconfig:"LOG_LEVEL"`
	LogFile  *string `envconfig:"LOG_FILE"`
	TUITheme *string `envconfig:"TUI_THEME"`
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays CATCHAT_* environment variables onto cfg
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.Host != nil {
		cfg.Host = *env.Host
	}
	if env.Port != nil {
		cfg.Port = *env.Port
	}
	if env.Secure != nil {
		cfg.Secure = *env.Secure
	}
	if env.UserID != nil {
		cfg.UserID = *env.UserID
	}
	if env.LogLevel != nil {
		cfg.LogLevel = *env.LogLevel
	}
	if env.LogFile != nil {
		cfg.LogFile = *env.LogFile
	}
	if env.TUITheme != nil {
		cfg.TUITheme = *env.TUITheme
	}
	return nil
}
