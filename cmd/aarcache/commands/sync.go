package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the cache with the declared artifact set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := cmd.Flags().GetString("mode")
			if err != nil {
				return err
			}
			a, err := c.buildApp(cmd)
			if err != nil {
				return err
			}
			result, err := a.Sync(cmd.Context(), mode)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d, failed %d, removed %d\n",
				result.Updated, result.Failed, result.Removed)
			return nil
		},
	}
	cmd.Flags().String("mode", "incremental", "Sync mode: full, incremental or refresh")
	return cmd
}
