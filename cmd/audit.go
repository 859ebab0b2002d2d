package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/connection"
	"taskboard/repository"
	"taskboard/services"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run one invitation integrity sweep and print the report",
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
		report, err := services.NewInvitationAuditor(repository.NewCollaboratorRepository(db), log).Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "orphan grants: %d\nremoved grants: %d\npending without grant: %d\n",
			report.OrphanGrants, report.RemovedGrants, report.UngrantedPending)
		return nil
	},
}
