package cmd

import (
	"github.com/spf13/cobra"

	"taskboard/connection"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		db, err := connection.DBConnection(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		log.Info("schema is up to date", "driver", cfg.DBDriver)
		return nil
	},
}
