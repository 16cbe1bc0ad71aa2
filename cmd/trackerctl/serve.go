package main

import (
	"os"
	"os/signal"
	"syscall"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the HTTP API",
	Aliases: []string{"s", "start"},
	Example: "trackerctl serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Run(ctx, cfg)
	},
}
