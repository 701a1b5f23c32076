package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
)

// topCmd ranks opponents by how often they were played.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Most frequently played opponents",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	addSourceFlags(topCmd)
	addQueryFlags(topCmd)
}

func runTop(cmd *cobra.Command, args []string) error {
	f, _, _, err := queryOptions()
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	top, err := ds.TopOpponents(f, queryN)
	if err != nil {
		return fmt.Errorf("top opponents: %w", err)
	}
	report.PrintDatasetHeader(os.Stdout, ds.Subject(), ds.Diagnostics())
	fmt.Fprintf(os.Stdout, "--- Top %d Opponents by Match Count ---\n\n", len(top))
	report.PrintTopOpponents(os.Stdout, top)
	return nil
}
