package model

import (
	"fmt"
	"strings"
)

// RatingFilter selects matches by their rated flag.
type RatingFilter int

const (
	RatingAll RatingFilter = iota
	RatingRatedOnly
	RatingUnratedOnly
)

func (r RatingFilter) String() string {
	switch r {
	case RatingRatedOnly:
		return "rated"
	case RatingUnratedOnly:
		return "unrated"
	default:
		return "all"
	}
}

// ParseRatingFilter accepts all/rated/unrated and the boolean spellings
// "true"/"false".
func ParseRatingFilter(s string) (RatingFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return RatingAll, nil
	case "rated", "true":
		return RatingRatedOnly, nil
	case "unrated", "false":
		return RatingUnratedOnly, nil
	}
	return RatingAll, fmt.Errorf("invalid rating filter %q (want all, rated or unrated)", s)
}

// Filter is the predicate applied to derived records before aggregation.
type Filter struct {
	Rating   RatingFilter
	Opponent string // case-insensitive substring; empty matches all
	Search   string // second substring the opponent must also contain
}

// Match reports whether d passes the filter.
func (f Filter) Match(d DerivedRecord) bool {
	switch f.Rating {
	case RatingRatedOnly:
		if !d.Rated {
			return false
		}
	case RatingUnratedOnly:
		if d.Rated {
			return false
		}
	}
	return containsFold(d.Opponent, f.Opponent) && containsFold(d.Opponent, f.Search)
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// SortKey selects the ordering field for opponent lists.
type SortKey int

const (
	SortByName SortKey = iota
	SortByWinRate
)

func (k SortKey) String() string {
	if k == SortByWinRate {
		return "winrate"
	}
	return "name"
}

func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "opponent":
		return SortByName, nil
	case "winrate", "win_rate", "win-rate", "rate":
		return SortByWinRate, nil
	}
	return SortByName, fmt.Errorf("invalid sort key %q (want name or winrate)", s)
}

// Direction is the sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort direction %q (want asc or desc)", s)
}
