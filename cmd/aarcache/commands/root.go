// Package commands implements the CLI commands for the aarcache tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pge-bw/aarcache/internal/app"
	"github.com/pge-bw/aarcache/internal/core/ports"
)

// CLI represents the command line interface for aarcache.
type CLI struct {
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given logger.
func New(logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "aarcache",
		Short:         "Local cache of the unpacked AAR libraries a project references",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("manifest", "m", "aar_manifest.yaml", "Path to the artifact manifest")
	rootCmd.PersistentFlags().String("cache-dir", "", "Cache root directory (defaults to .aarcache next to the manifest)")
	rootCmd.PersistentFlags().String("remote-base", "", "Base directory remote artifact keys are resolved against")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "Maximum parallel filesystem operations (defaults to the CPU count)")

	c := &CLI{
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newPathsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// Root exposes the underlying cobra command, primarily for testing.
func (c *CLI) Root() *cobra.Command {
	return c.rootCmd
}

// buildApp constructs the App from the persistent flags of cmd.
func (c *CLI) buildApp(cmd *cobra.Command) (*app.App, error) {
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, err
	}
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	remoteBase, err := cmd.Flags().GetString("remote-base")
	if err != nil {
		return nil, err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, err
	}

	return app.New(app.Options{
		ManifestPath: manifestPath,
		CacheDir:     cacheDir,
		RemoteBase:   remoteBase,
		Jobs:         jobs,
	}, c.logger), nil
}
