package main

import (
	"completions-tracker/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create or update the schema and seed the admin profile",
	Example: "trackerctl migrate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		logger.Info("schema up to date")
		logger.Sync()
		return nil
	},
}
