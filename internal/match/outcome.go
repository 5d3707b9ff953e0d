package match

import (
	"github.com/pickduel/backend/internal/models"
	"github.com/pickduel/backend/internal/rating"
)

// GuidelineRules are the minimum-activity requirements evaluated at
// resolution time.
type GuidelineRules struct {
	MinParlaysRequired int
	MinPctTotalStaked  float64
}

// Side is the per-participant input to outcome derivation.
type Side struct {
	Balance         float64
	StartingBalance float64
	TotalStaked     float64
	ParlayCount     int
}

// Disqualified reports whether the side failed either activity guideline.
func (r GuidelineRules) Disqualified(s Side) bool {
	if s.ParlayCount < r.MinParlaysRequired {
		return true
	}
	return s.TotalStaked < r.MinPctTotalStaked*s.StartingBalance
}

// Outcome is the derived result of a match for both sides.
type Outcome struct {
	StatusA string
	StatusB string
	// Rated is false when both sides are disqualified; no rating change
	// applies then.
	Rated  bool
	Result rating.Outcome
}

// Derive computes both participants' terminal statuses. Guideline failures
// override balances: a lone disqualification hands the opponent the win
// unconditionally, and a disqualified side is always scored as the loser.
func Derive(rules GuidelineRules, a, b Side) Outcome {
	dqA := rules.Disqualified(a)
	dqB := rules.Disqualified(b)

	switch {
	case dqA && dqB:
		return Outcome{
			StatusA: models.ParticipantDisqualified,
			StatusB: models.ParticipantDisqualified,
		}
	case dqA:
		return Outcome{
			StatusA: models.ParticipantDisqualified,
			StatusB: models.ParticipantWin,
			Rated:   true,
			Result:  rating.BWins,
		}
	case dqB:
		return Outcome{
			StatusA: models.ParticipantWin,
			StatusB: models.ParticipantDisqualified,
			Rated:   true,
			Result:  rating.AWins,
		}
	case a.Balance > b.Balance:
		return Outcome{
			StatusA: models.ParticipantWin,
			StatusB: models.ParticipantLoss,
			Rated:   true,
			Result:  rating.AWins,
		}
	case a.Balance < b.Balance:
		return Outcome{
			StatusA: models.ParticipantLoss,
			StatusB: models.ParticipantWin,
			Rated:   true,
			Result:  rating.BWins,
		}
	default:
		return Outcome{
			StatusA: models.ParticipantTie,
			StatusB: models.ParticipantTie,
			Rated:   true,
			Result:  rating.Draw,
		}
	}
}
