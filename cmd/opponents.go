package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/aggregator"
	"github.com/pable/go-fab-history/internal/report"
)

// opponentsCmd prints the per-opponent table in the requested order.
var opponentsCmd = &cobra.Command{
	Use:   "opponents",
	Short: "Win rate against each opponent",
	Long: `Print matches, wins, losses and win rate against every opponent.
Sort by name or by win rate; opponents with no known outcome always come last.`,
	Args: cobra.NoArgs,
	RunE: runOpponents,
}

func init() {
	addSourceFlags(opponentsCmd)
	addQueryFlags(opponentsCmd)
}

func runOpponents(cmd *cobra.Command, args []string) error {
	f, key, dir, err := queryOptions()
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	report.PrintDatasetHeader(os.Stdout, ds.Subject(), ds.Diagnostics())
	report.PrintOpponentTable(os.Stdout, aggregator.SortOpponents(ds.OpponentStats(f), key, dir))
	return nil
}
