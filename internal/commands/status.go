package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that the Cheshire Cat is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}

			st, err := deps.Status(cmd.Context(), settingsFromConfig(cfg), timeout)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatErrorMessage(err, "Status check failed"))
				return fmt.Errorf("status check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Endpoint: %s\n", st.Endpoint)
			fmt.Fprintf(out, "Status:   %s\n", st.Status)
			if st.Version != "" {
				fmt.Fprintf(out, "Version:  %s\n", st.Version)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout")
	return cmd
}
