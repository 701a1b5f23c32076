package report

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-fab-history/internal/aggregator"
	"github.com/pable/go-fab-history/internal/model"
)

// DefaultTopN is how many opponents the summary ranks.
const DefaultTopN = 5

// Summary is every view of one filter, as plain data for export.
type Summary struct {
	Subject     string                `json:"subject"`
	Rating      string                `json:"rating"`
	Opponent    string                `json:"opponent,omitempty"`
	Sort        string                `json:"sort"`
	Direction   string                `json:"direction"`
	Diagnostics model.Diagnostics     `json:"diagnostics"`
	Global      model.GlobalStats     `json:"global"`
	Opponents   []model.OpponentStats `json:"opponents"`
	Top         []model.OpponentStats `json:"top"`
	Rounds      []model.RoundStats    `json:"rounds"`
}

// BuildSummary computes the views concurrently; the dataset is read-only.
func BuildSummary(ctx context.Context, ds *aggregator.Dataset, f model.Filter, key model.SortKey, dir model.Direction, n int) (*Summary, error) {
	s := &Summary{
		Subject:     ds.Subject(),
		Rating:      f.Rating.String(),
		Opponent:    f.Opponent,
		Sort:        key.String(),
		Direction:   dir.String(),
		Diagnostics: ds.Diagnostics(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Global = ds.GlobalStats(f)
		return gCtx.Err()
	})
	g.Go(func() error {
		s.Opponents = aggregator.SortOpponents(ds.OpponentStats(f), key, dir)
		return gCtx.Err()
	})
	g.Go(func() error {
		top, err := ds.TopOpponents(f, n)
		if err != nil {
			return fmt.Errorf("top opponents: %w", err)
		}
		s.Top = top
		return nil
	})
	g.Go(func() error {
		s.Rounds = ds.RoundStats(f)
		return gCtx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

// PrintSummary prints the full dashboard: headline numbers, top opponents,
// opponents in the requested order and rounds.
func PrintSummary(w io.Writer, s *Summary) {
	f := model.Filter{Opponent: s.Opponent}
	f.Rating, _ = model.ParseRatingFilter(s.Rating)

	PrintDatasetHeader(w, s.Subject, s.Diagnostics)
	PrintGlobalStats(w, s.Global, f)

	fmt.Fprintf(w, "--- Top %d Opponents by Match Count ---\n\n", len(s.Top))
	PrintTopOpponents(w, s.Top)

	fmt.Fprintf(w, "\n--- Win Rate Against Each Opponent (%s %s) ---\n\n", s.Sort, s.Direction)
	PrintOpponentTable(w, s.Opponents)

	fmt.Fprintf(w, "\n--- Win Rate per Round ---\n\n")
	PrintRoundTable(w, s.Rounds)
}
