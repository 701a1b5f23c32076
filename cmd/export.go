package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every view of the match history as JSON",
	Long: `Compute the summary view for one filter and write it as indented JSON.
Win rates with no known outcome are written as null.

Example:
  fabhistory export --rating rated --sort winrate --dir desc --out rated.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addSourceFlags(exportCmd)
	addQueryFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	log.Info().Str("file", exportOut).Str("subject", s.Subject).Msg("summary exported")
	return nil
}
