package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
)

// searchCmd looks up opponents by a case-insensitive name fragment.
var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Win rate against opponents whose name contains the given text",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	addSourceFlags(searchCmd)
	addQueryFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	f, _, _, err := queryOptions()
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	report.PrintSearchResults(os.Stdout, ds.SearchOpponent(f, args[0]))
	return nil
}
