package matchmaking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/models"
	"github.com/pickduel/backend/internal/notify"
	"github.com/pickduel/backend/internal/schedule"
)

// Worker runs the background pairing scan over queued tickets.
type Worker struct {
	db       *sqlx.DB
	cfg      *config.Config
	feed     schedule.Feed
	notifier *notify.Notifier
}

func NewWorker(db *sqlx.DB, cfg *config.Config, feed schedule.Feed, notifier *notify.Notifier) *Worker {
	return &Worker{db: db, cfg: cfg, feed: feed, notifier: notifier}
}

// Start runs the pairing scan until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	interval := time.Duration(w.cfg.MatchmakerPollSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[MATCHMAKER] Starting pairing worker (poll every %v)", interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[MATCHMAKER] Worker stopped")
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan walks every (league, kind) bucket and pairs as many compatible
// tickets as it can.
func (w *Worker) Scan(ctx context.Context) {
	for _, league := range w.cfg.Leagues {
		endsAt, err := w.matchEndTime(ctx, league)
		if err != nil {
			if errors.Is(err, ErrNoGamesAvailable) {
				// Tickets stay queued; the pool is released, not consumed.
				log.Printf("[MATCHMAKER] No games today for %s, skipping bucket", league)
			} else {
				log.Printf("[MATCHMAKER] Schedule feed failed for %s: %v", league, err)
			}
			continue
		}

		for _, kind := range []string{models.MatchKindCompetitive, models.MatchKindFriendly} {
			for w.tryMatchPair(ctx, league, kind, endsAt) {
			}
		}
	}
}

// matchEndTime computes endsAt for a new match in this league from today's
// slate: last scheduled start plus the configured buffer.
func (w *Worker) matchEndTime(ctx context.Context, league string) (time.Time, error) {
	if w.feed == nil {
		return time.Time{}, errors.New("schedule feed not configured")
	}
	games, err := w.feed.TodayGames(ctx, league)
	if err != nil {
		return time.Time{}, err
	}
	endsAt, ok := schedule.MatchEndTime(games, time.Duration(w.cfg.MatchEndBufferHrs)*time.Hour)
	if !ok {
		return time.Time{}, ErrNoGamesAvailable
	}
	return endsAt, nil
}

// tryMatchPair claims the two oldest compatible tickets in the bucket and
// creates a match for them. Returns true if a pair was matched, so the
// caller can drain the bucket.
func (w *Worker) tryMatchPair(ctx context.Context, league, kind string, endsAt time.Time) bool {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Printf("[MATCHMAKER] Failed to begin transaction: %v", err)
		return false
	}
	defer tx.Rollback()

	// Claim candidate tickets without blocking on concurrent scans.
	// FOR UPDATE SKIP LOCKED makes ticket removal a critical section.
	var tickets []models.MatchmakingTicket
	err = tx.Select(&tickets, `
		SELECT id, token, user_id, league, kind, status, created_at, matched_at
		FROM matchmaking_queue
		WHERE league = $1 AND kind = $2 AND status = 'queued'
		ORDER BY created_at
		FOR UPDATE SKIP LOCKED
		LIMIT 20
	`, league, kind)
	if err != nil {
		log.Printf("[MATCHMAKER] Failed to query queued tickets: %v", err)
		return false
	}

	if len(tickets) < 2 {
		return false
	}

	t1, t2, found := w.findCompatiblePair(ctx, tx, tickets)
	if !found {
		return false
	}

	log.Printf("[MATCHMAKER] Pairing users: %s vs %s (league=%s kind=%s)",
		t1.UserID, t2.UserID, league, kind)

	// Match + both participants are one atomic insert; a partial pair
	// must never commit.
	var matchID int
	err = tx.QueryRowx(`
		INSERT INTO matches (league, kind, starting_balance, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, league, kind, w.cfg.StartingBalance, endsAt).Scan(&matchID)
	if err != nil {
		log.Printf("[MATCHMAKER] Failed to create match: %v", err)
		// failTickets runs on its own connection; the claimed rows must be
		// unlocked first or its UPDATE waits on this transaction forever.
		tx.Rollback()
		w.failTickets(ctx, t1, t2)
		return false
	}

	for _, t := range []models.MatchmakingTicket{t1, t2} {
		if _, err := tx.Exec(`
			INSERT INTO match_users (match_id, user_id, balance)
			VALUES ($1, $2, $3)
		`, matchID, t.UserID, w.cfg.StartingBalance); err != nil {
			log.Printf("[MATCHMAKER] Failed to insert participant for user %s: %v", t.UserID, err)
			tx.Rollback()
			w.failTickets(ctx, t1, t2)
			return false
		}
	}

	if _, err := tx.Exec(`
		UPDATE matchmaking_queue
		SET status = 'matched', matched_at = NOW()
		WHERE id IN ($1, $2)
	`, t1.ID, t2.ID); err != nil {
		log.Printf("[MATCHMAKER] Failed to update tickets: %v", err)
		tx.Rollback()
		w.failTickets(ctx, t1, t2)
		return false
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[MATCHMAKER] Failed to commit: %v", err)
		w.failTickets(ctx, t1, t2)
		return false
	}

	log.Printf("[MATCHMAKER] Match created: id=%d users=[%s,%s] ends_at=%s",
		matchID, t1.UserID, t2.UserID, endsAt.Format(time.RFC3339))

	if w.notifier != nil {
		w.notifier.SendToUsers(ctx, []string{t1.UserID, t2.UserID}, "match-found",
			map[string]interface{}{"matchId": matchID})
	}

	return true
}

// findCompatiblePair returns the first (FIFO) compatible ticket pair.
// Competitive pairs need both users to have prop availability for the
// league today; friendly pairs need an accepted match request between them.
func (w *Worker) findCompatiblePair(ctx context.Context, tx *sqlx.Tx, tickets []models.MatchmakingTicket) (models.MatchmakingTicket, models.MatchmakingTicket, bool) {
	for i := 0; i < len(tickets); i++ {
		for j := i + 1; j < len(tickets); j++ {
			if tickets[i].UserID == tickets[j].UserID {
				continue
			}
			ok, err := w.compatible(ctx, tx, tickets[i], tickets[j])
			if err != nil {
				log.Printf("[MATCHMAKER] Compatibility check failed for %s/%s: %v",
					tickets[i].UserID, tickets[j].UserID, err)
				continue
			}
			if ok {
				return tickets[i], tickets[j], true
			}
		}
	}
	return models.MatchmakingTicket{}, models.MatchmakingTicket{}, false
}

func (w *Worker) compatible(ctx context.Context, tx *sqlx.Tx, t1, t2 models.MatchmakingTicket) (bool, error) {
	switch t1.Kind {
	case models.MatchKindFriendly:
		var count int
		err := tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM friendly_match_requests
			WHERE status = 'accepted' AND league = $1
			  AND ((outgoing_id = $2 AND incoming_id = $3)
			    OR (outgoing_id = $3 AND incoming_id = $2))
		`, t1.League, t1.UserID, t2.UserID)
		return count > 0, err
	default:
		for _, userID := range []string{t1.UserID, t2.UserID} {
			available, err := propAvailability(ctx, tx, userID, t1.League)
			if err != nil || !available {
				return false, err
			}
		}
		return true, nil
	}
}

// propAvailability reports whether the user can still enter a competitive
// match for the league today: open props exist and the user is not already
// in an unresolved match for that league.
func propAvailability(ctx context.Context, tx *sqlx.Tx, userID, league string) (bool, error) {
	var openProps int
	if err := tx.GetContext(ctx, &openProps, `
		SELECT COUNT(*) FROM props
		WHERE league = $1 AND resolved = FALSE
		  AND created_at >= CURRENT_DATE
	`, league); err != nil {
		return false, err
	}
	if openProps == 0 {
		return false, nil
	}

	var activeMatches int
	if err := tx.GetContext(ctx, &activeMatches, `
		SELECT COUNT(*) FROM match_users mu
		JOIN matches m ON mu.match_id = m.id
		WHERE mu.user_id = $1 AND m.league = $2
		  AND m.kind = 'competitive' AND m.resolved = FALSE
	`, userID, league); err != nil {
		return false, err
	}
	return activeMatches == 0, nil
}

// failTickets drops both tickets after a pairing error. Pairing errors are
// not retried; the client must re-enqueue.
func (w *Worker) failTickets(ctx context.Context, t1, t2 models.MatchmakingTicket) {
	if _, err := w.db.ExecContext(ctx, `
		UPDATE matchmaking_queue SET status = 'cancelled'
		WHERE id IN ($1, $2) AND status = 'queued'
	`, t1.ID, t2.ID); err != nil {
		log.Printf("[MATCHMAKER] Failed to drop tickets %d/%d: %v", t1.ID, t2.ID, err)
	}

	if w.notifier != nil {
		w.notifier.SendToUsers(ctx, []string{t1.UserID, t2.UserID}, "matchmaking-failed", nil)
	}
}
