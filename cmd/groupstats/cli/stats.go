package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	statsGroupID string
	statsLimit   int

	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the engagement report of a group",
	Long: "Print the engagement report of a group. Without --group the groups are listed " +
		"and the choice is read from the terminal.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit := cfg.MaxMessages
		if cmd.Flags().Changed("limit") {
			if statsLimit < 0 {
				return errors.New("--limit must not be negative")
			}
			limit = statsLimit
		}

		if statsGroupID != "" {
			return application.Report(cmd.Context(), statsGroupID, limit, cmd.OutOrStdout())
		}

		if !stdinIsTerminal() {
			return errors.New("stdin is not a terminal, pass --group to choose a group")
		}
		return application.RunInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), limit)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsGroupID, "group", "", "group id, skips the interactive selection")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 0, "number of recent messages to analyze (default from config)")
	rootCmd.AddCommand(statsCmd)
}
