package rating

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// Updater converts a match outcome into persisted rating changes. It is
// the only component that writes user ratings.
type Updater struct {
	k float64
}

func NewUpdater(kFactor float64) *Updater {
	return &Updater{k: kFactor}
}

// ApplyResult recomputes both users' ratings for the outcome, persists
// them, and stamps each participant's elo_delta snapshot. Runs inside the
// caller's match-resolution transaction so ratings and statuses commit
// together.
func (u *Updater) ApplyResult(tx *sqlx.Tx, userA, userB string, participantA, participantB int, outcome Outcome) error {
	var ratingA, ratingB float64
	if err := tx.Get(&ratingA, `SELECT rating FROM users WHERE id = $1 FOR UPDATE`, userA); err != nil {
		return fmt.Errorf("load rating for %s: %w", userA, err)
	}
	if err := tx.Get(&ratingB, `SELECT rating FROM users WHERE id = $1 FOR UPDATE`, userB); err != nil {
		return fmt.Errorf("load rating for %s: %w", userB, err)
	}

	delta := Delta(u.k, ratingA, ratingB, outcome)

	if _, err := tx.Exec(`UPDATE users SET rating = rating + $1 WHERE id = $2`, delta, userA); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE users SET rating = rating - $1 WHERE id = $2`, delta, userB); err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE match_users SET elo_delta = $1 WHERE id = $2`, delta, participantA); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE match_users SET elo_delta = $1 WHERE id = $2`, -delta, participantB); err != nil {
		return err
	}

	log.Printf("[RATING] Applied result: userA=%s userB=%s delta=%+.0f", userA, userB, delta)
	return nil
}
