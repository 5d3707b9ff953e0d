package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pickduel/backend/internal/models"
)

var (
	ErrAlreadySearching = errors.New("user already has an active search for this league")
	ErrNoGamesAvailable = errors.New("no games scheduled today for this league")
	ErrUnknownMatchKind = errors.New("unknown match kind")
)

// Enqueue registers a matchmaking ticket. At most one active ticket per
// user per league is allowed.
func Enqueue(ctx context.Context, db *sqlx.DB, userID, league, kind string) (string, error) {
	if kind != models.MatchKindCompetitive && kind != models.MatchKindFriendly {
		return "", ErrUnknownMatchKind
	}

	token := uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO matchmaking_queue (token, user_id, league, kind, status)
		VALUES ($1, $2, $3, $4, 'queued')
	`, token, userID, league, kind)
	if err != nil {
		// The partial unique index on (user_id, league) WHERE status='queued'
		// turns a duplicate search into a constraint violation.
		if isUniqueViolation(err) {
			return "", ErrAlreadySearching
		}
		return "", fmt.Errorf("enqueue ticket: %w", err)
	}

	log.Printf("[MATCHMAKER] Enqueued user=%s league=%s kind=%s token=%s", userID, league, kind, token)
	return token, nil
}

// Cancel removes the user's queued ticket for a league. Idempotent: a
// missing or already-consumed ticket is a no-op, since the pairing scan's
// row locks are authoritative.
func Cancel(ctx context.Context, db *sqlx.DB, userID, league string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE matchmaking_queue SET status = 'cancelled'
		WHERE user_id = $1 AND league = $2 AND status = 'queued'
	`, userID, league)
	if err != nil {
		return fmt.Errorf("cancel ticket: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("[MATCHMAKER] Cancelled search for user=%s league=%s", userID, league)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
