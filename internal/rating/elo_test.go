package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScore(t *testing.T) {
	t.Run("equal ratings give even odds", func(t *testing.T) {
		assert.InDelta(t, 0.5, ExpectedScore(1000, 1000), 1e-9)
	})

	t.Run("400 point gap gives roughly 10:1 odds", func(t *testing.T) {
		assert.InDelta(t, 1.0/11.0, ExpectedScore(1000, 1400), 1e-9)
		assert.InDelta(t, 10.0/11.0, ExpectedScore(1400, 1000), 1e-9)
	})

	t.Run("expected scores sum to one", func(t *testing.T) {
		a := ExpectedScore(1234, 987)
		b := ExpectedScore(987, 1234)
		assert.InDelta(t, 1.0, a+b, 1e-9)
	})
}

func TestDelta(t *testing.T) {
	const k = 32.0

	t.Run("equal ratings, A wins", func(t *testing.T) {
		assert.Equal(t, 16.0, Delta(k, 1000, 1000, AWins))
	})

	t.Run("equal ratings, B wins", func(t *testing.T) {
		assert.Equal(t, -16.0, Delta(k, 1000, 1000, BWins))
	})

	t.Run("equal ratings, draw", func(t *testing.T) {
		assert.Equal(t, 0.0, Delta(k, 1000, 1000, Draw))
	})

	t.Run("upset win pays more", func(t *testing.T) {
		underdog := Delta(k, 1000, 1400, AWins)
		favorite := Delta(k, 1400, 1000, AWins)
		assert.Greater(t, underdog, favorite)
		assert.Equal(t, 29.0, underdog)
		assert.Equal(t, 3.0, favorite)
	})

	t.Run("favorite draw loses points", func(t *testing.T) {
		assert.Negative(t, Delta(k, 1400, 1000, Draw))
		assert.Positive(t, Delta(k, 1000, 1400, Draw))
	})
}

// The negated delta applies to the opponent, so the pair is always zero-sum.
func TestDeltaZeroSum(t *testing.T) {
	cases := []struct {
		ratingA, ratingB float64
		outcome          Outcome
	}{
		{1000, 1000, AWins},
		{1200, 900, BWins},
		{1550, 1480, Draw},
	}
	for _, c := range cases {
		deltaA := Delta(32, c.ratingA, c.ratingB, c.outcome)
		deltaB := -deltaA
		assert.Zero(t, deltaA+deltaB)
	}
}
