package model

import (
	"encoding/json"
	"errors"
)

// ErrUnknownResult marks a record whose result text names no unambiguous winner.
var ErrUnknownResult = errors.New("unknown result")

// ResultTag is the parsed outcome of a match from the players' slot perspective.
type ResultTag int

const (
	ResultUnknown ResultTag = iota
	ResultPlayerAWin
	ResultPlayerBWin
	ResultDraw
)

func (r ResultTag) String() string {
	switch r {
	case ResultPlayerAWin:
		return "Player 1 Win"
	case ResultPlayerBWin:
		return "Player 2 Win"
	case ResultDraw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// ParseResultTag is the inverse of String, used when reading stored records.
func ParseResultTag(s string) ResultTag {
	switch s {
	case "Player 1 Win":
		return ResultPlayerAWin
	case "Player 2 Win":
		return ResultPlayerBWin
	case "Draw":
		return ResultDraw
	default:
		return ResultUnknown
	}
}

// ---- Normalized facts ----

// MatchRecord is one validated match from the log. Never mutated after load.
type MatchRecord struct {
	Row     int // 1-based data row in the source, for diagnostics
	PlayerA string
	PlayerB string
	Round   string
	Result  ResultTag
	Rated   bool
}

// Outcome is the subject's result in one match.
type Outcome int

const (
	OutcomeNoData Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "no-data"
	}
}

// DerivedRecord is a MatchRecord seen from the subject's side.
type DerivedRecord struct {
	Opponent         string
	SubjectIsPlayerA bool
	Outcome          Outcome
	Round            string
	Rated            bool
}

// ---- Rates ----

// Rate is a fraction in [0,1], or NoData when nothing was eligible.
// NoData is distinct from zero and encodes as JSON null.
type Rate struct {
	Value float64
	Valid bool
}

// NoData is the undefined rate.
var NoData = Rate{}

// RateOf returns num/den, or NoData when den is zero.
func RateOf(num, den uint) Rate {
	if den == 0 {
		return NoData
	}
	return Rate{Value: float64(num) / float64(den), Valid: true}
}

// Percent scales the rate to 0–100, keeping NoData.
func (r Rate) Percent() Rate {
	if !r.Valid {
		return NoData
	}
	return Rate{Value: r.Value * 100, Valid: true}
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = NoData
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Rate{Value: v, Valid: true}
	return nil
}

// ---- Aggregated views ----

// OpponentStats is the head-to-head record against one opponent.
// WinCount+LossCount can be below MatchCount when some results were unknown.
type OpponentStats struct {
	Opponent   string `json:"opponent"`
	MatchCount uint   `json:"match_count"`
	WinCount   uint   `json:"win_count"`
	LossCount  uint   `json:"loss_count"`
	WinRate    Rate   `json:"win_rate"`
}

// KnownCount is the number of matches with a known outcome.
func (s *OpponentStats) KnownCount() uint {
	return s.WinCount + s.LossCount
}

// GlobalStats summarises every subject match that passed the filter.
type GlobalStats struct {
	TotalMatches   uint `json:"total_matches"`
	WinCount       uint `json:"win_count"`
	LossCount      uint `json:"loss_count"`
	UnknownResults uint `json:"unknown_results"`
	TotalWinRate   Rate `json:"total_winrate"`
	WinRateAsA     Rate `json:"winrate_as_a"`
	WinRateAsB     Rate `json:"winrate_as_b"`
	OpponentCount  uint `json:"opponent_count"`
}

// RoundStats is the subject's record in one round label.
type RoundStats struct {
	Round      string `json:"round"`
	MatchCount uint   `json:"match_count"`
	WinCount   uint   `json:"win_count"`
	LossCount  uint   `json:"loss_count"`
	WinRate    Rate   `json:"win_rate"`
	WinRatePct Rate   `json:"win_rate_pct"`
}

// Diagnostics reports per-record problems that were recovered during load.
type Diagnostics struct {
	Rows             int `json:"rows"`
	UnknownResults   int `json:"unknown_results"`
	UnrelatedMatches int `json:"unrelated_matches"`
}

// ImportSummary is a lightweight record for the list command.
type ImportSummary struct {
	Hash           string
	Source         string
	ImportedAt     string
	RowCount       int
	UnknownResults int
}
