package parlay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pickduel/backend/internal/models"
)

// PickRequest is one requested pick inside a parlay placement.
type PickRequest struct {
	PropID int    `json:"prop_id" binding:"required"`
	Choice string `json:"choice" binding:"required"`
}

// PlaceRequest is a parlay placement from an authenticated user.
type PlaceRequest struct {
	Type  string        `json:"type" binding:"required"`
	Stake float64       `json:"stake" binding:"required"`
	Picks []PickRequest `json:"picks" binding:"required"`
}

var (
	ErrParticipantNotFound = errors.New("user is not a participant in this match")
	ErrDuplicateProp       = errors.New("parlay references the same prop more than once")
)

// Place validates and inserts a parlay with its picks, reserving the stake
// against the participant's activity guidelines. The insert is
// all-or-nothing; a failed pick insert rolls back the parlay.
func (e *Engine) Place(ctx context.Context, userID string, matchID int, req PlaceRequest) (int, error) {
	if err := models.ValidateParlayShape(req.Type, len(req.Picks)); err != nil {
		return 0, err
	}
	seen := make(map[int]bool, len(req.Picks))
	for _, p := range req.Picks {
		if p.Choice != models.ChoiceOver && p.Choice != models.ChoiceUnder {
			return 0, fmt.Errorf("invalid choice %q", p.Choice)
		}
		if seen[p.PropID] {
			return 0, ErrDuplicateProp
		}
		seen[p.PropID] = true
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var m models.Match
	err = tx.Get(&m, `
		SELECT id, league, kind, starting_balance, ends_at, resolved, created_at
		FROM matches WHERE id = $1
	`, matchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("match %d not found", matchID)
		}
		return 0, err
	}

	if m.Resolved || time.Now().After(m.EndsAt) {
		return 0, ErrMatchClosed
	}

	var participant models.Participant
	err = tx.Get(&participant, `
		SELECT id, match_id, user_id, balance, total_staked, parlay_count,
		       status, elo_delta, created_at
		FROM match_users
		WHERE match_id = $1 AND user_id = $2
		FOR UPDATE
	`, matchID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrParticipantNotFound
		}
		return 0, err
	}

	if req.Stake > participant.Balance {
		return 0, ErrStakeOverBalance
	}
	if req.Stake < participant.Balance*e.cfg.MinStakePct {
		return 0, ErrInsufficientStake
	}

	// A pick against an already-final prop would be a free bet.
	var unresolvedProps int
	err = tx.Get(&unresolvedProps, `
		SELECT COUNT(*) FROM props
		WHERE id = ANY($1) AND resolved = FALSE AND league = $2
	`, pq.Array(propIDs(req.Picks)), m.League)
	if err != nil {
		return 0, err
	}
	if unresolvedProps != len(req.Picks) {
		return 0, ErrPropResolved
	}

	var parlayID int
	err = tx.QueryRowx(`
		INSERT INTO parlays (participant_id, type, stake)
		VALUES ($1, $2, $3)
		RETURNING id
	`, participant.ID, req.Type, req.Stake).Scan(&parlayID)
	if err != nil {
		return 0, err
	}

	for _, p := range req.Picks {
		if _, err := tx.Exec(`
			INSERT INTO picks (parlay_id, prop_id, choice)
			VALUES ($1, $2, $3)
		`, parlayID, p.PropID, p.Choice); err != nil {
			return 0, fmt.Errorf("insert pick for prop %d: %w", p.PropID, err)
		}
	}

	// Guideline counters accrue at placement; settlement never touches them.
	if _, err := tx.Exec(`
		UPDATE match_users
		SET total_staked = total_staked + $1, parlay_count = parlay_count + 1
		WHERE id = $2
	`, req.Stake, participant.ID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	log.Printf("[PARLAY] Placed parlay %d: match=%d user=%s type=%s stake=%.2f picks=%d",
		parlayID, matchID, userID, req.Type, req.Stake, len(req.Picks))

	if e.notifier != nil {
		e.notifier.Invalidate(ctx,
			[]interface{}{"match", matchID},
			[]interface{}{"parlays", matchID, userID},
		)
	}

	return parlayID, nil
}

func propIDs(picks []PickRequest) []int {
	ids := make([]int, len(picks))
	for i, p := range picks {
		ids[i] = p.PropID
	}
	return ids
}
