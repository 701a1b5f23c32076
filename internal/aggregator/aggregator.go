package aggregator

import (
	"sort"
	"strconv"

	"github.com/pable/go-fab-history/internal/model"
)

// accum counts one group's matches and known outcomes.
type accum struct {
	matches, wins, losses uint
}

func (a *accum) add(d model.DerivedRecord) {
	a.matches++
	switch d.Outcome {
	case model.OutcomeWon:
		a.wins++
	case model.OutcomeLost:
		a.losses++
	}
}

// winRate is computed over known outcomes only.
func (a *accum) winRate() model.Rate {
	return model.RateOf(a.wins, a.wins+a.losses)
}

// group is one key's accumulator, kept in first-seen order.
type group struct {
	key string
	acc accum
}

// groupBy buckets records by key in a single pass.
func groupBy(records []model.DerivedRecord, key func(model.DerivedRecord) string) []group {
	index := make(map[string]int)
	var groups []group
	for _, d := range records {
		k := key(d)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].acc.add(d)
	}
	return groups
}

func byOpponent(d model.DerivedRecord) string { return d.Opponent }
func byRound(d model.DerivedRecord) string    { return d.Round }

// aggregateOpponents returns one OpponentStats per opponent, name ascending.
func aggregateOpponents(records []model.DerivedRecord) []model.OpponentStats {
	groups := groupBy(records, byOpponent)
	out := make([]model.OpponentStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.OpponentStats{
			Opponent:   g.key,
			MatchCount: g.acc.matches,
			WinCount:   g.acc.wins,
			LossCount:  g.acc.losses,
			WinRate:    g.acc.winRate(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Opponent < out[j].Opponent })
	return out
}

// aggregateRounds returns one RoundStats per round label in natural order.
func aggregateRounds(records []model.DerivedRecord) []model.RoundStats {
	groups := groupBy(records, byRound)
	out := make([]model.RoundStats, 0, len(groups))
	for _, g := range groups {
		rate := g.acc.winRate()
		out = append(out, model.RoundStats{
			Round:      g.key,
			MatchCount: g.acc.matches,
			WinCount:   g.acc.wins,
			LossCount:  g.acc.losses,
			WinRate:    rate,
			WinRatePct: rate.Percent(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return roundLess(out[i].Round, out[j].Round) })
	return out
}

// roundLess orders numeric labels numerically, before any non-numeric label,
// which sort lexicographically.
func roundLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// aggregateGlobal folds every record into one GlobalStats.
func aggregateGlobal(records []model.DerivedRecord) model.GlobalStats {
	var all, asA, asB accum
	opponents := make(map[string]struct{})
	for _, d := range records {
		all.add(d)
		if d.SubjectIsPlayerA {
			asA.add(d)
		} else {
			asB.add(d)
		}
		opponents[d.Opponent] = struct{}{}
	}
	return model.GlobalStats{
		TotalMatches:   all.matches,
		WinCount:       all.wins,
		LossCount:      all.losses,
		UnknownResults: all.matches - all.wins - all.losses,
		TotalWinRate:   all.winRate(),
		WinRateAsA:     asA.winRate(),
		WinRateAsB:     asB.winRate(),
		OpponentCount:  uint(len(opponents)),
	}
}
