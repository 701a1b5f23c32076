package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/aggregator"
	"github.com/pable/go-fab-history/internal/config"
	"github.com/pable/go-fab-history/internal/model"
	"github.com/pable/go-fab-history/internal/parser"
	"github.com/pable/go-fab-history/internal/report"
	"github.com/pable/go-fab-history/internal/storage"
)

var (
	sourceFile   string
	sourceImport string

	queryRating   string
	queryOpponent string
	querySort     string
	queryDir      string
	queryN        int
)

// addSourceFlags registers the flags choosing where match records come from.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceFile, "file", "", "read matches straight from a CSV export instead of the database")
	cmd.Flags().StringVar(&sourceImport, "import", "", "only use the stored import with this hash prefix")
}

// addQueryFlags registers the filter and ordering flags.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&queryRating, "rating", "all", "rating filter: all, rated, unrated")
	cmd.Flags().StringVar(&queryOpponent, "opponent", "", "only opponents whose name contains this text (case-insensitive)")
	cmd.Flags().StringVar(&querySort, "sort", "name", "opponent order: name, winrate")
	cmd.Flags().StringVar(&queryDir, "dir", "asc", "sort direction: asc, desc")
	cmd.Flags().IntVarP(&queryN, "limit", "n", report.DefaultTopN, "number of top opponents")
}

// queryOptions parses the filter and ordering flags.
func queryOptions() (model.Filter, model.SortKey, model.Direction, error) {
	rating, err := model.ParseRatingFilter(queryRating)
	if err != nil {
		return model.Filter{}, 0, 0, err
	}
	key, err := model.ParseSortKey(querySort)
	if err != nil {
		return model.Filter{}, 0, 0, err
	}
	dir, err := model.ParseDirection(queryDir)
	if err != nil {
		return model.Filter{}, 0, 0, err
	}
	return model.Filter{Rating: rating, Opponent: queryOpponent}, key, dir, nil
}

// loadDataset builds the dataset from --file or from the database.
func loadDataset() (*aggregator.Dataset, error) {
	var (
		records []model.MatchRecord
		diag    model.Diagnostics
		err     error
	)
	if sourceFile != "" {
		records, diag, err = recordsFromFile(sourceFile)
	} else {
		records, diag, err = recordsFromDB(sourceImport)
	}
	if err != nil {
		return nil, err
	}

	ds, err := aggregator.Load(records, diag)
	if errors.Is(err, aggregator.ErrEmptyDataset) {
		return nil, fmt.Errorf("no matches to analyse: run 'fabhistory import <file.csv>' or pass --file")
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	d := ds.Diagnostics()
	log.Info().
		Str("subject", ds.Subject()).
		Int("rows", d.Rows).
		Int("unknown_results", d.UnknownResults).
		Int("unrelated_matches", d.UnrelatedMatches).
		Msg("dataset loaded")
	return ds, nil
}

func recordsFromFile(path string) ([]model.MatchRecord, model.Diagnostics, error) {
	cols, err := config.LoadColumns(columnsPath)
	if err != nil {
		return nil, model.Diagnostics{}, err
	}
	parsed, err := parser.ParseFile(path, cols)
	if err != nil {
		return nil, model.Diagnostics{}, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug().Str("file", path).Str("hash", parsed.Hash).Msg("parsed csv")
	for _, w := range parsed.Warnings {
		log.Debug().Err(w).Msg("result kept as unknown")
	}
	return parsed.Records, parsed.Diagnostics, nil
}

func recordsFromDB(prefix string) ([]model.MatchRecord, model.Diagnostics, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, model.Diagnostics{}, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	hash := ""
	if prefix != "" {
		imp, err := db.GetImportByPrefix(prefix)
		if err != nil {
			return nil, model.Diagnostics{}, fmt.Errorf("query import: %w", err)
		}
		if imp == nil {
			return nil, model.Diagnostics{}, fmt.Errorf("no import found with hash prefix %q", prefix)
		}
		hash = imp.Hash
	}

	records, err := db.LoadRecords(hash)
	if err != nil {
		return nil, model.Diagnostics{}, fmt.Errorf("load records: %w", err)
	}
	diag := model.Diagnostics{Rows: len(records)}
	for _, r := range records {
		if r.Result == model.ResultUnknown {
			diag.UnknownResults++
		}
	}
	return records, diag, nil
}
