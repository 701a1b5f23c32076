package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-fab-history/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintDatasetHeader prints the subject and load diagnostics.
func PrintDatasetHeader(w io.Writer, subject string, diag model.Diagnostics) {
	fmt.Fprintf(w, "\nPlayer: %s  |  Rows: %d", subject, diag.Rows)
	if diag.UnknownResults > 0 {
		fmt.Fprintf(w, "  |  %d rows with unknown result (excluded from win rates)", diag.UnknownResults)
	}
	if diag.UnrelatedMatches > 0 {
		fmt.Fprintf(w, "  |  %d unrelated matches", diag.UnrelatedMatches)
	}
	fmt.Fprint(w, "\n\n")
}

// PrintGlobalStats prints the headline numbers for one filter.
func PrintGlobalStats(w io.Writer, g model.GlobalStats, f model.Filter) {
	fmt.Fprintf(w, "Filter: %s", f.Rating)
	if f.Opponent != "" {
		fmt.Fprintf(w, ", opponent ~ %q", f.Opponent)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Total matches          : %d\n", g.TotalMatches)
	fmt.Fprintf(w, "  Total winrate          : %s\n", FormatRate(g.TotalWinRate))
	fmt.Fprintf(w, "  Winrate as player 1    : %s\n", FormatRate(g.WinRateAsA))
	fmt.Fprintf(w, "  Winrate as player 2    : %s\n", FormatRate(g.WinRateAsB))
	fmt.Fprintf(w, "  Different opponents    : %d\n", g.OpponentCount)
	if g.UnknownResults > 0 {
		fmt.Fprintf(w, "  Unknown results        : %d (excluded from winrates)\n", g.UnknownResults)
	}
	fmt.Fprintln(w)
}

// PrintOpponentTable prints one row per opponent in the given order.
// WIN% 95% CI is the Wilson interval over known outcomes.
func PrintOpponentTable(w io.Writer, stats []model.OpponentStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No matches found for this filter.")
		return
	}
	table := newTable(w)
	table.Header("OPPONENT", "MATCHES", "W", "L", "?", "WIN%", "95% CI")
	for _, s := range stats {
		known := s.KnownCount()
		ci := "—"
		if known > 0 {
			lo, hi := wilsonCI(int(s.WinCount), int(known))
			ci = fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100)
		}
		table.Append(
			s.Opponent,
			strconv.FormatUint(uint64(s.MatchCount), 10),
			strconv.FormatUint(uint64(s.WinCount), 10),
			strconv.FormatUint(uint64(s.LossCount), 10),
			strconv.FormatUint(uint64(s.MatchCount-known), 10),
			FormatRate(s.WinRate),
			ci,
		)
	}
	table.Render()
}

// PrintTopOpponents prints the most-played opponents with their win/loss split.
func PrintTopOpponents(w io.Writer, top []model.OpponentStats) {
	if len(top) == 0 {
		fmt.Fprintln(w, "No opponents.")
		return
	}
	table := newTable(w)
	table.Header("#", "OPPONENT", "MATCHES", "WINS", "LOSSES", "WIN%")
	for i, s := range top {
		table.Append(
			strconv.Itoa(i+1),
			s.Opponent,
			strconv.FormatUint(uint64(s.MatchCount), 10),
			strconv.FormatUint(uint64(s.WinCount), 10),
			strconv.FormatUint(uint64(s.LossCount), 10),
			FormatRate(s.WinRate),
		)
	}
	table.Render()
}

// PrintRoundTable prints the win rate per round label.
func PrintRoundTable(w io.Writer, rounds []model.RoundStats) {
	if len(rounds) == 0 {
		fmt.Fprintln(w, "No rounds.")
		return
	}
	table := newTable(w)
	table.Header("ROUND", "MATCHES", "W", "L", "WIN%")
	for _, r := range rounds {
		pct := "—"
		if r.WinRatePct.Valid {
			pct = fmt.Sprintf("%.2f%%", r.WinRatePct.Value)
		}
		table.Append(
			r.Round,
			strconv.FormatUint(uint64(r.MatchCount), 10),
			strconv.FormatUint(uint64(r.WinCount), 10),
			strconv.FormatUint(uint64(r.LossCount), 10),
			pct,
		)
	}
	table.Render()
}

// PrintSearchResults prints one line per matching opponent.
func PrintSearchResults(w io.Writer, stats []model.OpponentStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No matches found for this opponent")
		return
	}
	for _, s := range stats {
		fmt.Fprintf(w, "  %s: %d matches, %s win rate\n", s.Opponent, s.MatchCount, FormatRate(s.WinRate))
	}
}

// PrintImportList prints stored imports.
func PrintImportList(w io.Writer, imports []model.ImportSummary) {
	table := newTable(w)
	table.Header("HASH", "IMPORTED", "ROWS", "UNKNOWN", "SOURCE")
	for _, s := range imports {
		hash := s.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		table.Append(hash, s.ImportedAt, strconv.Itoa(s.RowCount), strconv.Itoa(s.UnknownResults), s.Source)
	}
	table.Render()
}

// FormatRate renders a rate as a percentage, or "—" for NoData.
func FormatRate(r model.Rate) string {
	if !r.Valid {
		return "—"
	}
	return fmt.Sprintf("%.2f%%", r.Value*100)
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

// PrintQueryResult prints the columns and rows of a raw SQL query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}
