package cmd

import (
	"fmt"
	"os"

	"transect-admin/backend/config"
	"transect-admin/backend/database"

	"github.com/spf13/cobra"
)

// RootCommand creates the root command with all subcommands attached.
// Config and the database are initialized once, before any subcommand runs.
func RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transect-admin",
		Short: "Trapping line maintenance tracker",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := database.Init(); err != nil {
				return fmt.Errorf("failed to init database: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCommand(),
		importOutingsCommand(),
		importBaitoutCommand(),
	)

	return rootCmd
}

func Execute() {
	if err := RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
