package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pable/go-fab-history/internal/model"
)

var (
	slotAMarkers = []string{"player 1", "player1", "p1"}
	slotBMarkers = []string{"player 2", "player2", "p2"}
	winVerbs     = []string{"win", "wins", "won"}
	drawMarkers  = []string{"draw", "drawn", "tie", "tied"}
)

// ParseResult classifies a free-text result. Exactly one side must be named
// as the winner; text naming neither side or both sides is Unknown.
func ParseResult(text, playerA, playerB string) model.ResultTag {
	t := normalizeText(text)
	if t == "" {
		return model.ResultUnknown
	}

	aSpans := winnerSpans(t, slotAMarkers, normalizeText(playerA))
	bSpans := winnerSpans(t, slotBMarkers, normalizeText(playerB))
	// A phrase lying inside the other side's longer phrase does not count,
	// so "bob smith wins" is not also a win for "smith".
	aWins := hasOwnSpan(aSpans, bSpans)
	bWins := hasOwnSpan(bSpans, aSpans)

	switch {
	case aWins && !bWins:
		return model.ResultPlayerAWin
	case bWins && !aWins:
		return model.ResultPlayerBWin
	case aWins && bWins:
		return model.ResultUnknown
	}
	for _, m := range drawMarkers {
		if containsPhrase(t, m) {
			return model.ResultDraw
		}
	}
	return model.ResultUnknown
}

// span is a byte range [start, end) of the normalized text.
type span struct{ start, end int }

func (s span) within(o span) bool {
	return o.start <= s.start && s.end <= o.end && o.end-o.start > s.end-s.start
}

// winnerSpans returns every "<subject> <win verb>" occurrence for one side.
func winnerSpans(t string, markers []string, name string) []span {
	subjects := markers
	if name != "" {
		subjects = append(append([]string(nil), markers...), name)
	}
	var out []span
	for _, s := range subjects {
		for _, v := range winVerbs {
			out = append(out, phraseSpans(t, s+" "+v)...)
		}
	}
	return out
}

// hasOwnSpan reports whether some span in mine is not swallowed by a longer
// span in theirs.
func hasOwnSpan(mine, theirs []span) bool {
	for _, m := range mine {
		inside := false
		for _, o := range theirs {
			if m.within(o) {
				inside = true
				break
			}
		}
		if !inside {
			return true
		}
	}
	return false
}

// normalizeText lower-cases and collapses whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// containsPhrase reports whether phrase occurs in t on word boundaries.
func containsPhrase(t, phrase string) bool {
	return len(phraseSpans(t, phrase)) > 0
}

// phraseSpans returns every word-bounded occurrence of phrase in t.
func phraseSpans(t, phrase string) []span {
	if phrase == "" {
		return nil
	}
	var out []span
	for from := 0; from <= len(t)-len(phrase); {
		i := strings.Index(t[from:], phrase)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(phrase)
		if boundaryBefore(t, start) && boundaryAfter(t, end) {
			out = append(out, span{start, end})
		}
		from = start + 1
	}
	return out
}

func boundaryBefore(t string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(t[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(t string, i int) bool {
	if i >= len(t) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(t[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
