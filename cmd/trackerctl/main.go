// Command trackerctl runs the API and the offline maintenance tasks
// (migrations, spreadsheet import and export) against the configured store.
package main

import (
	"fmt"
	"os"

	"completions-tracker/internal/config"
	"completions-tracker/internal/database"
	"completions-tracker/internal/logger"

	"github.com/spf13/cobra"
)

var cmds = []*cobra.Command{
	serveCmd,
	migrateCmd,
	importCmd,
	exportCmd,
}

func main() {
	command := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Completions tracker backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	for _, c := range cmds {
		command.AddCommand(c)
	}

	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads config, starts logging and opens the migrated store.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LogMode); err != nil {
		return nil, err
	}
	if err := database.Init(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
