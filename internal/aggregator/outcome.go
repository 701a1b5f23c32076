package aggregator

import "github.com/pable/go-fab-history/internal/model"

// Derive views rec from the subject's side. A record the subject did not
// play in yields *SubjectNotInRecordError.
func Derive(rec model.MatchRecord, subject string) (model.DerivedRecord, error) {
	d := model.DerivedRecord{Round: rec.Round, Rated: rec.Rated}
	switch subject {
	case rec.PlayerA:
		d.SubjectIsPlayerA = true
		d.Opponent = rec.PlayerB
	case rec.PlayerB:
		d.Opponent = rec.PlayerA
	default:
		return model.DerivedRecord{}, &SubjectNotInRecordError{Row: rec.Row, Subject: subject}
	}

	switch rec.Result {
	case model.ResultUnknown:
		d.Outcome = model.OutcomeNoData
	case model.ResultPlayerAWin:
		d.Outcome = outcomeFor(d.SubjectIsPlayerA)
	case model.ResultPlayerBWin:
		d.Outcome = outcomeFor(!d.SubjectIsPlayerA)
	case model.ResultDraw:
		// Draws are known non-wins.
		d.Outcome = model.OutcomeLost
	}
	return d, nil
}

func outcomeFor(won bool) model.Outcome {
	if won {
		return model.OutcomeWon
	}
	return model.OutcomeLost
}

// deriveAll derives every record the subject played in and counts the rest.
func deriveAll(records []model.MatchRecord, subject string) (derived []model.DerivedRecord, unrelated int) {
	derived = make([]model.DerivedRecord, 0, len(records))
	for _, r := range records {
		d, err := Derive(r, subject)
		if err != nil {
			unrelated++
			continue
		}
		derived = append(derived, d)
	}
	return derived, unrelated
}
