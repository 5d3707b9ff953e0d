package match

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/models"
	"github.com/pickduel/backend/internal/notify"
	"github.com/pickduel/backend/internal/rating"
	"github.com/pickduel/backend/internal/schedule"
)

// Resolver closes out matches once a league's daily slate is final. It is
// the only component that transitions Match and Participant statuses.
type Resolver struct {
	db       *sqlx.DB
	cfg      *config.Config
	feed     schedule.Feed
	updater  *rating.Updater
	notifier *notify.Notifier
}

func NewResolver(db *sqlx.DB, cfg *config.Config, feed schedule.Feed, updater *rating.Updater, notifier *notify.Notifier) *Resolver {
	return &Resolver{db: db, cfg: cfg, feed: feed, updater: updater, notifier: notifier}
}

// Start polls for resolvable leagues until the context is cancelled.
func (r *Resolver) Start(ctx context.Context) {
	interval := time.Duration(r.cfg.ResolverPollSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[RESOLVER] Starting match resolver (poll every %v)", interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[RESOLVER] Resolver stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Resolver) runOnce(ctx context.Context) {
	for _, league := range r.cfg.Leagues {
		games, err := r.feed.TodayGames(ctx, league)
		if err != nil {
			log.Printf("[RESOLVER] Schedule feed failed for %s: %v", league, err)
			continue
		}
		if !schedule.AllFinal(games) {
			continue
		}
		r.resolveLeague(ctx, league)
	}
}

// resolveLeague resolves every unresolved match created today in a league
// whose slate is final. The ends_at clause is a backstop for matches
// stranded across midnight or through a resolver outage.
func (r *Resolver) resolveLeague(ctx context.Context, league string) {
	var matchIDs []int
	err := r.db.SelectContext(ctx, &matchIDs, `
		SELECT id FROM matches
		WHERE league = $1 AND resolved = FALSE
		  AND (created_at >= CURRENT_DATE OR ends_at < NOW() - INTERVAL '1 hour')
	`, league)
	if err != nil {
		log.Printf("[RESOLVER] Failed to list matches for %s: %v", league, err)
		return
	}

	for _, matchID := range matchIDs {
		if err := r.ResolveMatch(ctx, matchID); err != nil {
			log.Printf("[RESOLVER] Failed to resolve match %d: %v", matchID, err)
		}
	}
}

// ResolveMatch applies guideline checks, derives statuses, adjusts ratings
// for competitive matches, and marks the match resolved, all in one
// transaction. A match with any unsettled parlay is skipped until the
// parlay engine catches up.
func (r *Resolver) ResolveMatch(ctx context.Context, matchID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var m models.Match
	err = tx.Get(&m, `
		SELECT id, league, kind, starting_balance, ends_at, resolved, created_at
		FROM matches
		WHERE id = $1
		FOR UPDATE
	`, matchID)
	if err != nil {
		return err
	}
	if m.Resolved {
		return nil
	}

	var participants []models.Participant
	err = tx.Select(&participants, `
		SELECT id, match_id, user_id, balance, total_staked, parlay_count,
		       status, elo_delta, created_at
		FROM match_users
		WHERE match_id = $1
		ORDER BY id
		FOR UPDATE
	`, matchID)
	if err != nil {
		return err
	}
	if len(participants) != 2 {
		log.Printf("[RESOLVER] Match %d has %d participants, expected 2; skipping",
			matchID, len(participants))
		return nil
	}

	// Settlement must complete before resolution reads balances.
	var pendingParlays int
	err = tx.Get(&pendingParlays, `
		SELECT COUNT(*) FROM parlays p
		JOIN match_users mu ON p.participant_id = mu.id
		WHERE mu.match_id = $1 AND p.resolved = FALSE
	`, matchID)
	if err != nil {
		return err
	}
	if pendingParlays > 0 {
		log.Printf("[RESOLVER] Match %d has %d unsettled parlays, deferring", matchID, pendingParlays)
		return nil
	}

	p1, p2 := participants[0], participants[1]
	rules := GuidelineRules{
		MinParlaysRequired: r.cfg.MinParlaysRequired,
		MinPctTotalStaked:  r.cfg.MinPctTotalStaked,
	}
	outcome := Derive(rules,
		Side{Balance: p1.Balance, StartingBalance: m.StartingBalance, TotalStaked: p1.TotalStaked, ParlayCount: p1.ParlayCount},
		Side{Balance: p2.Balance, StartingBalance: m.StartingBalance, TotalStaked: p2.TotalStaked, ParlayCount: p2.ParlayCount},
	)

	if _, err := tx.Exec(`UPDATE match_users SET status = $1 WHERE id = $2`, outcome.StatusA, p1.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE match_users SET status = $1 WHERE id = $2`, outcome.StatusB, p2.ID); err != nil {
		return err
	}

	// Friendly matches never touch ratings.
	if m.Kind == models.MatchKindCompetitive && outcome.Rated {
		if err := r.updater.ApplyResult(tx, p1.UserID, p2.UserID, p1.ID, p2.ID, outcome.Result); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE matches SET resolved = TRUE WHERE id = $1`, matchID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("[RESOLVER] Resolved match %d: %s=%s %s=%s",
		matchID, p1.UserID, outcome.StatusA, p2.UserID, outcome.StatusB)

	if r.notifier != nil {
		r.notifier.SendToMatch(ctx, matchID, "match-resolved", map[string]interface{}{
			"users": []map[string]interface{}{
				{"user_id": p1.UserID, "status": outcome.StatusA, "balance": p1.Balance},
				{"user_id": p2.UserID, "status": outcome.StatusB, "balance": p2.Balance},
			},
		})
		r.notifier.Invalidate(ctx,
			[]interface{}{"match", matchID},
			[]interface{}{"matches", p1.UserID},
			[]interface{}{"matches", p2.UserID},
		)
	}

	return nil
}
