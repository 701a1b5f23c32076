package aggregator

import (
	"errors"
	"fmt"

	"github.com/pable/go-fab-history/internal/model"
)

// ErrEmptyDataset is returned when there is nothing to resolve a subject from.
var ErrEmptyDataset = errors.New("empty dataset")

// SubjectNotInRecordError marks a record the subject did not play in.
type SubjectNotInRecordError struct {
	Row     int
	Subject string
}

func (e *SubjectNotInRecordError) Error() string {
	return fmt.Sprintf("row %d: subject %q is in neither player slot", e.Row, e.Subject)
}

// ResolveSubject returns the name seen most often across both player slots.
// Equal counts resolve to the lexicographically smallest name.
func ResolveSubject(records []model.MatchRecord) (string, error) {
	if len(records) == 0 {
		return "", ErrEmptyDataset
	}
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.PlayerA]++
		counts[r.PlayerB]++
	}

	var best string
	bestCount := 0
	for name, c := range counts {
		if c > bestCount || (c == bestCount && name < best) {
			best, bestCount = name, c
		}
	}
	return best, nil
}
