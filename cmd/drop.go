package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/storage"
)

var dropForce bool

// dropCmd deletes one import, or the whole database when no prefix is given.
var dropCmd = &cobra.Command{
	Use:   "drop [hash-prefix]",
	Short: "Delete one import or the whole database",
	Long: `With a hash prefix, delete that import and its matches.
Without one, permanently delete the SQLite database. Re-import your CSV files afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropImport(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropImport(prefix string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imp, err := db.GetImportByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query import: %w", err)
	}
	if imp == nil {
		fmt.Fprintf(os.Stderr, "No import found with hash prefix %q\n", prefix)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete import %s (%s, %d rows).\n", imp.Hash[:12], imp.Source, imp.RowCount)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteImport(imp.Hash); err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted import %s\n", imp.Hash[:12])
	return nil
}
