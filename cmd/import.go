package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/config"
	"github.com/pable/go-fab-history/internal/model"
	"github.com/pable/go-fab-history/internal/parser"
	"github.com/pable/go-fab-history/internal/report"
	"github.com/pable/go-fab-history/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <history.csv>",
	Short: "Parse a match history CSV and store its matches",
	Long: `Parse a match history CSV export and store its rows in the database.
Files are keyed by content hash, so importing the same file twice is a no-op.
Any invalid row rejects the whole file; rows with an unreadable result are
stored and counted as unknown.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	cols, err := config.LoadColumns(columnsPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", path)
	parsed, err := parser.ParseFile(path, cols)
	if err != nil {
		return fmt.Errorf("parse match log: %w", err)
	}

	exists, err := db.ImportExists(parsed.Hash)
	if err != nil {
		return fmt.Errorf("check import: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "File %s already imported.\n", parsed.Hash[:12])
		return nil
	}

	summary := model.ImportSummary{
		Hash:           parsed.Hash,
		Source:         path,
		ImportedAt:     time.Now().UTC().Format(time.RFC3339),
		RowCount:       len(parsed.Records),
		UnknownResults: parsed.Diagnostics.UnknownResults,
	}
	if err := db.InsertImport(summary, parsed.Records); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}
	log.Info().
		Str("hash", parsed.Hash[:12]).
		Int("rows", summary.RowCount).
		Int("unknown_results", summary.UnknownResults).
		Msg("import stored")

	report.PrintImportList(os.Stdout, []model.ImportSummary{summary})
	if summary.UnknownResults > 0 {
		fmt.Fprintf(os.Stdout, "%d rows with unknown result (excluded from win rates)\n", summary.UnknownResults)
	}
	return nil
}
