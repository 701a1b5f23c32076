package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
	"github.com/pable/go-fab-history/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored imports",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imports, err := db.ListImports()
	if err != nil {
		return fmt.Errorf("list imports: %w", err)
	}
	if len(imports) == 0 {
		fmt.Fprintln(os.Stdout, "No imports stored yet. Run 'fabhistory import <history.csv>' to add one.")
		return nil
	}

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}

	report.PrintImportList(os.Stdout, imports)
	fmt.Fprintf(os.Stdout, "\n  Imports        : %d\n", ov.Imports)
	fmt.Fprintf(os.Stdout, "  Matches        : %d\n", ov.Matches)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Unknown results: %d\n", ov.UnknownResults)
	return nil
}
