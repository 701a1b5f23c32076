package aggregator

import (
	"errors"
	"strings"

	"github.com/pable/go-fab-history/internal/model"
)

// ErrNegativeN is returned by TopOpponents for n < 0.
var ErrNegativeN = errors.New("n must be >= 0")

// Dataset is a loaded match log together with its resolved subject.
// It is immutable after Load and safe for concurrent queries.
type Dataset struct {
	records []model.MatchRecord
	subject string
	diag    model.Diagnostics
}

// Load resolves the subject once and counts the records it did not play in.
// diag carries the normalizer's counts; Load fills in UnrelatedMatches.
func Load(records []model.MatchRecord, diag model.Diagnostics) (*Dataset, error) {
	subject, err := ResolveSubject(records)
	if err != nil {
		return nil, err
	}
	recs := append([]model.MatchRecord(nil), records...)
	_, unrelated := deriveAll(recs, subject)
	if diag.Rows == 0 {
		diag.Rows = len(recs)
	}
	diag.UnrelatedMatches = unrelated
	return &Dataset{records: recs, subject: subject, diag: diag}, nil
}

// Subject returns the tracked player.
func (ds *Dataset) Subject() string { return ds.subject }

// Diagnostics returns the load-time counts of recovered per-record problems.
func (ds *Dataset) Diagnostics() model.Diagnostics { return ds.diag }

// Records returns a copy of the normalized records.
func (ds *Dataset) Records() []model.MatchRecord {
	return append([]model.MatchRecord(nil), ds.records...)
}

// view derives and filters on every call; nothing is cached between filters.
func (ds *Dataset) view(f model.Filter) []model.DerivedRecord {
	derived, _ := deriveAll(ds.records, ds.subject)
	out := derived[:0]
	for _, d := range derived {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// GlobalStats summarises the subject's filtered matches.
func (ds *Dataset) GlobalStats(f model.Filter) model.GlobalStats {
	return aggregateGlobal(ds.view(f))
}

// OpponentStats returns per-opponent records, name ascending. An empty,
// non-nil slice means the filter matched nothing.
func (ds *Dataset) OpponentStats(f model.Filter) []model.OpponentStats {
	return aggregateOpponents(ds.view(f))
}

// RoundStats returns per-round records in natural round order.
func (ds *Dataset) RoundStats(f model.Filter) []model.RoundStats {
	return aggregateRounds(ds.view(f))
}

// TopOpponents returns the n most-played opponents.
func (ds *Dataset) TopOpponents(f model.Filter, n int) ([]model.OpponentStats, error) {
	return TopN(ds.OpponentStats(f), n)
}

// SearchOpponent narrows f to opponents whose name also contains substring
// (case-insensitive). The empty substring leaves f unchanged.
func (ds *Dataset) SearchOpponent(f model.Filter, substring string) []model.OpponentStats {
	f.Search = strings.TrimSpace(substring)
	return ds.OpponentStats(f)
}
