// Package commands provides the catchat command line.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/catchat/internal/api"
	"github.com/diogo/catchat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are the persistent flags shared by every command. They win
// over the config file and the environment.
type globalFlags struct {
	host     string
	port     int
	user     string
	secure   bool
	logLevel string
	logFile  string
}

// NewRootCmd creates the catchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "catchat",
		Short: "Terminal chat client for the Cheshire Cat",
		Long: `catchat talks to a Cheshire Cat service over its WebSocket API.

Settings are read from ~/.catchat/config.json, then from .env and CATCHAT_*
environment variables, then from flags.

Examples:
  catchat                               Start the chat window
  catchat --host cat.local --user alice
  catchat send "What is a Cheshire Cat?"
  cat question.md | catchat send --raw
  catchat status                        Check that the Cat is up`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "catchat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, deps, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.host, "host", "", "Cheshire Cat host (default from config)")
	pf.IntVarP(&flags.port, "port", "p", 0, "Cheshire Cat port (default from config)")
	pf.StringVarP(&flags.user, "user", "u", "", "User id of the session")
	pf.BoolVar(&flags.secure, "secure", false, "Use wss:// and https://")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFile, "log-file", "", "Log file path")
	root.Flags().BoolP("version", "v", false, "Show version and exit")

	root.AddCommand(
		newChatCmd(deps, flags),
		newSendCmd(deps, flags),
		newStatusCmd(deps, flags),
		newConfigCmd(flags),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd(NewDependencies()).Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings resolves the effective configuration for cmd
func loadSettings(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("host") {
		cfg.Host = flags.host
	}
	if f.Changed("port") {
		cfg.Port = flags.port
	}
	if f.Changed("user") {
		cfg.UserID = flags.user
	}
	if f.Changed("secure") {
		cfg.Secure = flags.secure
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func settingsFromConfig(cfg config.Config) api.Settings {
	return api.Settings{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UserID: cfg.UserID,
		Secure: cfg.Secure,
	}
}
