package parlay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/models"
	"github.com/pickduel/backend/internal/notify"
)

// Errors reported synchronously to callers placing parlays.
var (
	ErrInsufficientStake = errors.New("stake below minimum percentage of balance")
	ErrStakeOverBalance  = errors.New("stake exceeds balance")
	ErrMatchClosed       = errors.New("match is closed for new parlays")
	ErrPropResolved      = errors.New("prop already resolved")
	ErrPickUnresolved    = errors.New("parlay has unresolved picks")
)

// Engine owns parlay and pick state: placement, pick resolution from prop
// outcomes, and settlement.
type Engine struct {
	db       *sqlx.DB
	cfg      *config.Config
	notifier *notify.Notifier
}

func NewEngine(db *sqlx.DB, cfg *config.Config, notifier *notify.Notifier) *Engine {
	return &Engine{db: db, cfg: cfg, notifier: notifier}
}

// Settlement is the computed outcome of a fully-resolved parlay.
type Settlement struct {
	EffectiveCount int
	HitCount       int
	Multiplier     float64
	Payout         float64
	Profit         float64
	Push           bool
}

// ComputeSettlement turns terminal pick statuses into a payout. Voided
// picks (ties and non-participants) shrink the parlay to a smaller one of
// the same type before the multiplier lookup.
func ComputeSettlement(parlayType string, stake float64, statuses []string) (Settlement, error) {
	hitCount := 0
	effectiveCount := 0

	for _, s := range statuses {
		switch s {
		case models.PickNotResolved:
			return Settlement{}, ErrPickUnresolved
		case models.PickHit:
			hitCount++
			effectiveCount++
		case models.PickMissed:
			effectiveCount++
		case models.PickTie, models.PickDidNotPlay:
			// voided, excluded from counting
		default:
			return Settlement{}, fmt.Errorf("unknown pick status %q", s)
		}
	}

	s := Settlement{EffectiveCount: effectiveCount, HitCount: hitCount}

	// Every pick voided: full stake back.
	if effectiveCount == 0 {
		s.Push = true
		s.Payout = stake
		return s, nil
	}

	// Voids dropped the parlay below its type's floor: push, not a loss.
	if parlayType == models.ParlayTypeFlex && effectiveCount < 3 {
		s.Push = true
		s.Payout = stake
		return s, nil
	}
	if parlayType == models.ParlayTypePerfect && effectiveCount < 2 {
		s.Push = true
		s.Payout = stake
		return s, nil
	}

	switch parlayType {
	case models.ParlayTypePerfect:
		if hitCount == effectiveCount {
			s.Multiplier = PerfectMultiplier(effectiveCount)
		}
	case models.ParlayTypeFlex:
		s.Multiplier = FlexMultiplier(effectiveCount, hitCount)
	default:
		return Settlement{}, fmt.Errorf("unknown parlay type %q", parlayType)
	}

	s.Payout = stake * s.Multiplier
	s.Profit = s.Payout - stake
	return s, nil
}

// ResolveProp applies a prop's final outcome to every pick referencing it,
// then settles any parlay whose picks are all terminal. Pick updates and
// each parlay settlement run in their own transaction so a consistent
// terminal snapshot is always observed.
func (e *Engine) ResolveProp(ctx context.Context, propID int) error {
	parlayIDs, err := e.resolvePicks(ctx, propID)
	if err != nil {
		return err
	}

	for _, parlayID := range parlayIDs {
		if err := e.SettleParlay(ctx, parlayID); err != nil {
			log.Printf("[PARLAY] Failed to settle parlay %d: %v", parlayID, err)
		}
	}

	return nil
}

// resolvePicks transitions all picks on a prop to their terminal status and
// returns the ids of affected parlays.
func (e *Engine) resolvePicks(ctx context.Context, propID int) ([]int, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var prop models.Prop
	err = tx.Get(&prop, `
		SELECT id, league, game_id, player_id, player_name, stat_name, line,
		       current_value, resolved, did_not_play, created_at
		FROM props
		WHERE id = $1
		FOR UPDATE
	`, propID)
	if err != nil {
		return nil, fmt.Errorf("load prop %d: %w", propID, err)
	}

	if !prop.Resolved {
		return nil, fmt.Errorf("prop %d is not resolved", propID)
	}

	type affected struct {
		ID       int `db:"id"`
		ParlayID int `db:"parlay_id"`
	}
	var rows []affected

	switch {
	case prop.DidNotPlay:
		err = tx.Select(&rows, `
			UPDATE picks SET status = 'did_not_play'
			WHERE prop_id = $1 AND status = 'not_resolved'
			RETURNING id, parlay_id
		`, propID)
	case prop.CurrentValue == prop.Line:
		err = tx.Select(&rows, `
			UPDATE picks SET status = 'tie'
			WHERE prop_id = $1 AND status = 'not_resolved'
			RETURNING id, parlay_id
		`, propID)
	default:
		winning := models.ChoiceUnder
		if prop.CurrentValue > prop.Line {
			winning = models.ChoiceOver
		}
		err = tx.Select(&rows, `
			UPDATE picks SET status = CASE
				WHEN choice = $2 THEN 'hit'
				ELSE 'missed'
			END
			WHERE prop_id = $1 AND status = 'not_resolved'
			RETURNING id, parlay_id
		`, propID, winning)
	}
	if err != nil {
		return nil, fmt.Errorf("update picks for prop %d: %w", propID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	parlayIDs := make([]int, 0, len(rows))
	for _, r := range rows {
		if !seen[r.ParlayID] {
			seen[r.ParlayID] = true
			parlayIDs = append(parlayIDs, r.ParlayID)
		}
	}

	log.Printf("[PARLAY] Prop %d resolved: %d picks updated across %d parlays",
		propID, len(rows), len(parlayIDs))
	return parlayIDs, nil
}

// SettleParlay settles a parlay once every pick is terminal. Safe to call
// speculatively: not-yet-ready and already-resolved parlays are no-ops.
func (e *Engine) SettleParlay(ctx context.Context, parlayID int) error {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var p models.Parlay
	err = tx.Get(&p, `
		SELECT id, participant_id, type, stake, resolved, payout, created_at
		FROM parlays
		WHERE id = $1
		FOR UPDATE
	`, parlayID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("parlay %d not found", parlayID)
		}
		return err
	}

	if p.Resolved {
		return nil
	}

	var statuses []string
	if err := tx.Select(&statuses, `SELECT status FROM picks WHERE parlay_id = $1`, parlayID); err != nil {
		return err
	}

	settlement, err := ComputeSettlement(p.Type, p.Stake, statuses)
	if err != nil {
		if errors.Is(err, ErrPickUnresolved) {
			return nil
		}
		return err
	}

	if _, err := tx.Exec(`
		UPDATE parlays SET resolved = TRUE, payout = $1 WHERE id = $2
	`, settlement.Payout, parlayID); err != nil {
		return err
	}

	var info struct {
		MatchID int    `db:"match_id"`
		UserID  string `db:"user_id"`
	}
	err = tx.Get(&info, `
		UPDATE match_users SET balance = balance + $1
		WHERE id = $2
		RETURNING match_id, user_id
	`, settlement.Profit, p.ParticipantID)
	if err != nil {
		return fmt.Errorf("apply profit for parlay %d: %w", parlayID, err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("[PARLAY] Settled parlay %d: effective=%d hits=%d payout=%.2f profit=%.2f push=%t",
		parlayID, settlement.EffectiveCount, settlement.HitCount,
		settlement.Payout, settlement.Profit, settlement.Push)

	if e.notifier != nil {
		e.notifier.SendToUsers(ctx, []string{info.UserID}, "parlay-resolved", map[string]interface{}{
			"parlay_id": parlayID,
			"payout":    settlement.Payout,
			"profit":    settlement.Profit,
		})
		e.notifier.Invalidate(ctx,
			[]interface{}{"parlay", parlayID},
			[]interface{}{"parlays", info.MatchID, info.UserID},
			[]interface{}{"match", info.MatchID},
		)
	}

	return nil
}
