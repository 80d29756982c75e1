package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <library-key>",
		Short: "Print the cached jar and resource directory for a library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.buildApp(cmd)
			if err != nil {
				return err
			}
			paths, err := a.Paths(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "jar: %s\nres: %s\n", paths.Jar, paths.Res)
			return nil
		},
	}
}
