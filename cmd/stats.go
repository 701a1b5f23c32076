package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
)

// statsCmd prints the headline numbers for the subject.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Overall win rate, win rate as player 1 and 2, opponent count",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	addSourceFlags(statsCmd)
	addQueryFlags(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	f, _, _, err := queryOptions()
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	report.PrintDatasetHeader(os.Stdout, ds.Subject(), ds.Diagnostics())
	report.PrintGlobalStats(os.Stdout, ds.GlobalStats(f), f)
	return nil
}
