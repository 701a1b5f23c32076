package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
)

// summaryCmd is the cobra command for the full dashboard view.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show every view of the match history at once",
	Long: `Display the headline numbers, the most played opponents, the win rate
against each opponent and the win rate per round for one filter.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	addSourceFlags(summaryCmd)
	addQueryFlags(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, key, dir, err := queryOptions()
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	s, err := report.BuildSummary(cmd.Context(), ds, f, key, dir, queryN)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}
	report.PrintSummary(os.Stdout, s)
	return nil
}
