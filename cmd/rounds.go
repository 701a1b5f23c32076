package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
)

// roundsCmd is the cobra command for the per-round win rate breakdown.
var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Win rate per round label",
	Long: `Print the subject's win rate for every round label in the history.
Numeric rounds come first in numeric order, then named rounds such as "Top 8".`,
	Args: cobra.NoArgs,
	RunE: runRounds,
}

func init() {
	addSourceFlags(roundsCmd)
	addQueryFlags(roundsCmd)
}

func runRounds(cmd *cobra.Command, args []string) error {
	f, _, _, err := queryOptions()
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	report.PrintDatasetHeader(os.Stdout, ds.Subject(), ds.Diagnostics())
	report.PrintRoundTable(os.Stdout, ds.RoundStats(f))
	return nil
}
