package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the groups visible to the access token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		groups, err := application.Groups(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, g := range groups {
			if _, err := fmt.Fprintf(out, "%d. %s (id %s)\n", i+1, g.Name, g.ID); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}
