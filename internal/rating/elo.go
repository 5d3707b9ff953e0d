package rating

import "math"

// Outcome of a two-player match from player A's perspective.
type Outcome int

const (
	AWins Outcome = iota
	BWins
	Draw
)

// Score is the Elo score value for the outcome: 1 for a win, 0 for a
// loss, 0.5 for a draw.
func (o Outcome) score() float64 {
	switch o {
	case AWins:
		return 1.0
	case BWins:
		return 0.0
	default:
		return 0.5
	}
}

// ExpectedScore is the probability that a player rated ratingA beats a
// player rated ratingB under the Elo model.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// Delta computes player A's rating change for the outcome. Player B's
// change is the negation; a two-player match is zero-sum.
func Delta(k, ratingA, ratingB float64, outcome Outcome) float64 {
	expected := ExpectedScore(ratingA, ratingB)
	return math.Round(k * (outcome.score() - expected))
}
