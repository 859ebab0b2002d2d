package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"taskboard/connection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the invitation audit schedule",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)
	return connection.StartServer(cfg, log)
}
