package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/server"
)

var serveAddr string

// serveCmd exposes the dataset as a JSON API for dashboards.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the match statistics as a JSON API",
	Long: `Load the match history once and serve it over HTTP:

  GET /api/subject     subject and load diagnostics
  GET /api/global      headline numbers
  GET /api/opponents   per-opponent stats (sort, dir)
  GET /api/rounds      per-round stats
  GET /api/top?n=5     most played opponents
  GET /api/search?q=   opponents whose name contains q
  GET /api/summary     every view at once

Every endpoint accepts rating=all|rated|unrated and opponent=<text>.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addSourceFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", cfg.Addr, "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	return server.New(ds, log).Run(cmd.Context(), serveAddr)
}
