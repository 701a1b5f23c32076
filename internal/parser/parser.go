package parser

import (
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pable/go-fab-history/internal/model"
)

// ColumnMap names the header of each required input column.
type ColumnMap struct {
	PlayerA string `yaml:"player_a"`
	PlayerB string `yaml:"player_b"`
	Round   string `yaml:"round"`
	Result  string `yaml:"result"`
	Rated   string `yaml:"rated"`
}

// DefaultColumns matches the match_history.csv export.
var DefaultColumns = ColumnMap{
	PlayerA: "Player 1",
	PlayerB: "Player 2",
	Round:   "Round",
	Result:  "Result",
	Rated:   "Rated",
}

// WithDefaults fills blank entries from DefaultColumns.
func (c ColumnMap) WithDefaults() ColumnMap {
	if c.PlayerA == "" {
		c.PlayerA = DefaultColumns.PlayerA
	}
	if c.PlayerB == "" {
		c.PlayerB = DefaultColumns.PlayerB
	}
	if c.Round == "" {
		c.Round = DefaultColumns.Round
	}
	if c.Result == "" {
		c.Result = DefaultColumns.Result
	}
	if c.Rated == "" {
		c.Rated = DefaultColumns.Rated
	}
	return c
}

// RawRow is one input row before validation. Row is the 1-based data row.
type RawRow struct {
	Row     int
	PlayerA string
	PlayerB string
	Round   string
	Result  string
	Rated   string
}

// ParsedLog is the outcome of parsing one match history file.
type ParsedLog struct {
	Hash        string
	Source      string
	Records     []model.MatchRecord
	Diagnostics model.Diagnostics
	// Warnings holds one *UnknownResultError per row counted in
	// Diagnostics.UnknownResults.
	Warnings []error
}

// ParseFile reads, hashes and normalizes the CSV at path.
func ParseFile(path string, cols ColumnMap) (*ParsedLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match log: %w", err)
	}
	defer f.Close()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash match log: %w", err)
	}
	hash := fmt.Sprintf("%x", h.Sum(nil))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek match log: %w", err)
	}

	rows, err := ReadCSV(f, cols)
	if err != nil {
		return nil, err
	}
	records, diag, err := NormalizeAll(rows)
	if err != nil {
		return nil, err
	}
	return &ParsedLog{
		Hash:        hash,
		Source:      path,
		Records:     records,
		Diagnostics: diag,
		Warnings:    UnknownResults(rows, records),
	}, nil
}

// UnknownResults returns an *UnknownResultError for every record whose
// result could not be read, quoting the raw text of its row.
func UnknownResults(rows []RawRow, records []model.MatchRecord) []error {
	text := make(map[int]string, len(rows))
	for _, r := range rows {
		text[r.Row] = strings.TrimSpace(r.Result)
	}
	var out []error
	for _, rec := range records {
		if rec.Result == model.ResultUnknown {
			out = append(out, &UnknownResultError{Row: rec.Row, Text: text[rec.Row]})
		}
	}
	return out
}

// ReadCSV reads a header row followed by data rows. Extra columns are ignored;
// a missing required column fails the whole read.
func ReadCSV(r io.Reader, cols ColumnMap) ([]RawRow, error) {
	cols = cols.WithDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ValidationError{Fields: []string{"header"}, Reason: "empty input"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	want := []struct{ field, column string }{
		{"player_a", cols.PlayerA},
		{"player_b", cols.PlayerB},
		{"round", cols.Round},
		{"result", cols.Result},
		{"rated", cols.Rated},
	}
	pos := make([]int, len(want))
	var missing []string
	for i, w := range want {
		p, ok := index[strings.ToLower(strings.TrimSpace(w.column))]
		if !ok {
			missing = append(missing, fmt.Sprintf("%s (%q)", w.field, w.column))
			continue
		}
		pos[i] = p
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing, Reason: "required column not in header"}
	}

	cell := func(rec []string, p int) string {
		if p < len(rec) {
			return rec[p]
		}
		return ""
	}

	var rows []RawRow
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", n, err)
		}
		rows = append(rows, RawRow{
			Row:     n,
			PlayerA: cell(rec, pos[0]),
			PlayerB: cell(rec, pos[1]),
			Round:   cell(rec, pos[2]),
			Result:  cell(rec, pos[3]),
			Rated:   cell(rec, pos[4]),
		})
	}
	return rows, nil
}

// NormalizeAll validates every row. Invalid rows are collected into a single
// *LoadError; rows with an unknown result are kept and counted.
func NormalizeAll(rows []RawRow) ([]model.MatchRecord, model.Diagnostics, error) {
	var (
		out     = make([]model.MatchRecord, 0, len(rows))
		diag    = model.Diagnostics{Rows: len(rows)}
		invalid []*ValidationError
	)
	for _, row := range rows {
		rec, err := Normalize(row)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				invalid = append(invalid, verr)
				continue
			}
			return nil, diag, err
		}
		if rec.Result == model.ResultUnknown {
			diag.UnknownResults++
		}
		out = append(out, rec)
	}
	if len(invalid) > 0 {
		return nil, diag, &LoadError{Errors: invalid}
	}
	return out, diag, nil
}

// Normalize turns one raw row into a MatchRecord.
func Normalize(row RawRow) (model.MatchRecord, error) {
	a := strings.TrimSpace(row.PlayerA)
	b := strings.TrimSpace(row.PlayerB)
	round := strings.TrimSpace(row.Round)
	result := strings.TrimSpace(row.Result)

	var missing []string
	if a == "" {
		missing = append(missing, "player_a")
	}
	if b == "" {
		missing = append(missing, "player_b")
	}
	if round == "" {
		missing = append(missing, "round")
	}
	if result == "" {
		missing = append(missing, "result")
	}
	if strings.TrimSpace(row.Rated) == "" {
		missing = append(missing, "rated")
	}
	if len(missing) > 0 {
		return model.MatchRecord{}, &ValidationError{Row: row.Row, Fields: missing, Reason: "missing value"}
	}

	rated, ok := ParseBool(row.Rated)
	if !ok {
		return model.MatchRecord{}, &ValidationError{
			Row:    row.Row,
			Fields: []string{"rated"},
			Reason: fmt.Sprintf("not a boolean: %q", row.Rated),
		}
	}
	if strings.EqualFold(a, b) {
		return model.MatchRecord{}, &ValidationError{
			Row:    row.Row,
			Fields: []string{"player_a", "player_b"},
			Reason: fmt.Sprintf("same player in both slots: %q", a),
		}
	}

	return model.MatchRecord{
		Row:     row.Row,
		PlayerA: a,
		PlayerB: b,
		Round:   round,
		Result:  ParseResult(result, a, b),
		Rated:   rated,
	}, nil
}

// ParseBool accepts the boolean spellings found in exported match logs.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "rated":
		return true, true
	case "false", "f", "no", "n", "0", "unrated":
		return false, true
	}
	return false, false
}
