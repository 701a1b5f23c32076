package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-fab-history/internal/model"
)

// ImportExists returns true if a match log with the given hash is already stored.
func (db *DB) ImportExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM imports WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertImport stores an import and its match records in one transaction.
// Re-importing the same hash replaces the previous rows.
func (db *DB) InsertImport(summary model.ImportSummary, records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches WHERE import_hash = ?", summary.Hash); err != nil {
		return fmt.Errorf("clear previous matches: %w", err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO imports(hash, source, imported_at, row_count, unknown_results)
		VALUES (?, ?, ?, ?, ?)`,
		summary.Hash, summary.Source, summary.ImportedAt, summary.RowCount, summary.UnknownResults,
	)
	if err != nil {
		return fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(import_hash, row_num, player_a, player_b, round, result, rated)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.Exec(summary.Hash, r.Row, r.PlayerA, r.PlayerB, r.Round, r.Result.String(), boolInt(r.Rated))
		if err != nil {
			return fmt.Errorf("insert match row %d: %w", r.Row, err)
		}
	}
	return tx.Commit()
}

// ListImports returns all stored imports, newest first.
func (db *DB) ListImports() ([]model.ImportSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source, imported_at, row_count, unknown_results
		FROM imports ORDER BY imported_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ImportSummary
	for rows.Next() {
		var s model.ImportSummary
		if err := rows.Scan(&s.Hash, &s.Source, &s.ImportedAt, &s.RowCount, &s.UnknownResults); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetImportByPrefix returns the first import whose hash starts with prefix, or nil.
func (db *DB) GetImportByPrefix(prefix string) (*model.ImportSummary, error) {
	var s model.ImportSummary
	err := db.conn.QueryRow(`
		SELECT hash, source, imported_at, row_count, unknown_results
		FROM imports WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%").
		Scan(&s.Hash, &s.Source, &s.ImportedAt, &s.RowCount, &s.UnknownResults)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadRecords returns the stored match records of one import, or of every
// import when hash is empty. Row numbers stay those of the source file.
func (db *DB) LoadRecords(hash string) ([]model.MatchRecord, error) {
	query := `SELECT row_num, player_a, player_b, round, result, rated FROM matches`
	var args []any
	if hash != "" {
		query += ` WHERE import_hash = ?`
		args = append(args, hash)
	}
	query += ` ORDER BY import_hash, row_num`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var (
			r        model.MatchRecord
			result   string
			ratedInt int
		)
		if err := rows.Scan(&r.Row, &r.PlayerA, &r.PlayerB, &r.Round, &result, &ratedInt); err != nil {
			return nil, err
		}
		r.Result = model.ParseResultTag(result)
		r.Rated = ratedInt != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteImport removes an import and its matches. Returns false if nothing matched.
func (db *DB) DeleteImport(hash string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches WHERE import_hash = ?", hash); err != nil {
		return false, err
	}
	res, err := tx.Exec("DELETE FROM imports WHERE hash = ?", hash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// Overview holds database-wide counts for the list command.
type Overview struct {
	Imports        int
	Matches        int
	Players        int
	UnknownResults int
}

// GetOverview returns database-wide counts.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT
			(SELECT COUNT(1) FROM imports),
			(SELECT COUNT(1) FROM matches),
			(SELECT COUNT(1) FROM (SELECT player_a AS p FROM matches UNION SELECT player_b FROM matches)),
			(SELECT COUNT(1) FROM matches WHERE result = ?)`,
		model.ResultUnknown.String(),
	).Scan(&ov.Imports, &ov.Matches, &ov.Players, &ov.UnknownResults)
	return ov, err
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
