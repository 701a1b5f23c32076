package aggregator

import (
	"sort"

	"github.com/pable/go-fab-history/internal/model"
)

// SortOpponents returns a sorted copy of stats. Entries without a win rate
// always come last; within each part the key applies in direction dir.
// Win-rate ties fall back to name ascending.
func SortOpponents(stats []model.OpponentStats, key model.SortKey, dir model.Direction) []model.OpponentStats {
	out := make([]model.OpponentStats, len(stats))
	copy(out, stats)
	desc := dir == model.Descending

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRate.Valid != b.WinRate.Valid {
			return a.WinRate.Valid
		}
		if key == model.SortByWinRate && a.WinRate.Valid && a.WinRate.Value != b.WinRate.Value {
			if desc {
				return a.WinRate.Value > b.WinRate.Value
			}
			return a.WinRate.Value < b.WinRate.Value
		}
		if key == model.SortByWinRate {
			return a.Opponent < b.Opponent
		}
		if desc {
			return a.Opponent > b.Opponent
		}
		return a.Opponent < b.Opponent
	})
	return out
}

// TopN returns the n opponents with the most matches, ties by name ascending.
func TopN(stats []model.OpponentStats, n int) ([]model.OpponentStats, error) {
	if n < 0 {
		return nil, ErrNegativeN
	}
	out := make([]model.OpponentStats, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchCount != out[j].MatchCount {
			return out[i].MatchCount > out[j].MatchCount
		}
		return out[i].Opponent < out[j].Opponent
	})
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}
