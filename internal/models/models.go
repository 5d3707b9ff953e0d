package models

import (
	"database/sql"
	"fmt"
	"time"
)

// Match kinds
const (
	MatchKindCompetitive = "competitive"
	MatchKindFriendly    = "friendly"
)

// Participant statuses
const (
	ParticipantNotResolved  = "not_resolved"
	ParticipantWin          = "win"
	ParticipantLoss         = "loss"
	ParticipantTie          = "tie"
	ParticipantDisqualified = "disqualified"
)

// Parlay types
const (
	ParlayTypeFlex    = "flex"
	ParlayTypePerfect = "perfect"
)

// Pick statuses
const (
	PickNotResolved = "not_resolved"
	PickHit         = "hit"
	PickMissed      = "missed"
	PickTie         = "tie"
	PickDidNotPlay  = "did_not_play"
)

// Pick choices
const (
	ChoiceOver  = "over"
	ChoiceUnder = "under"
)

// Matchmaking ticket statuses
const (
	TicketQueued    = "queued"
	TicketMatched   = "matched"
	TicketCancelled = "cancelled"
)

// User represents a registered user. Identity management lives elsewhere;
// this service only reads the id and adjusts the rating.
type User struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Rating    float64   `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MatchmakingTicket represents a user waiting to be paired
type MatchmakingTicket struct {
	ID        int          `db:"id" json:"id"`
	Token     string       `db:"token" json:"token"`
	UserID    string       `db:"user_id" json:"user_id"`
	League    string       `db:"league" json:"league"`
	Kind      string       `db:"kind" json:"kind"`
	Status    string       `db:"status" json:"status"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	MatchedAt sql.NullTime `db:"matched_at" json:"matched_at,omitempty"`
}

// Match represents a head-to-head contest between two participants
type Match struct {
	ID              int       `db:"id" json:"id"`
	League          string    `db:"league" json:"league"`
	Kind            string    `db:"kind" json:"kind"`
	StartingBalance float64   `db:"starting_balance" json:"starting_balance"`
	EndsAt          time.Time `db:"ends_at" json:"ends_at"`
	Resolved        bool      `db:"resolved" json:"resolved"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Participant is one side of a match (match_users row)
type Participant struct {
	ID          int       `db:"id" json:"id"`
	MatchID     int       `db:"match_id" json:"match_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Balance     float64   `db:"balance" json:"balance"`
	TotalStaked float64   `db:"total_staked" json:"total_staked"`
	ParlayCount int       `db:"parlay_count" json:"parlay_count"`
	Status      string    `db:"status" json:"status"`
	EloDelta    float64   `db:"elo_delta" json:"elo_delta"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Prop represents a player statistic line users pick against
type Prop struct {
	ID           int       `db:"id" json:"id"`
	League       string    `db:"league" json:"league"`
	GameID       string    `db:"game_id" json:"game_id"`
	PlayerID     int       `db:"player_id" json:"player_id"`
	PlayerName   string    `db:"player_name" json:"player_name"`
	StatName     string    `db:"stat_name" json:"stat_name"`
	Line         float64   `db:"line" json:"line"`
	CurrentValue float64   `db:"current_value" json:"current_value"`
	Resolved     bool      `db:"resolved" json:"resolved"`
	DidNotPlay   bool      `db:"did_not_play" json:"did_not_play"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Parlay is a wager of 2-6 picks placed by a participant
type Parlay struct {
	ID            int       `db:"id" json:"id"`
	ParticipantID int       `db:"participant_id" json:"participant_id"`
	Type          string    `db:"type" json:"type"`
	Stake         float64   `db:"stake" json:"stake"`
	Resolved      bool      `db:"resolved" json:"resolved"`
	Payout        float64   `db:"payout" json:"payout"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Profit is payout minus stake; zero until the parlay resolves.
func (p *Parlay) Profit() float64 {
	if !p.Resolved {
		return 0
	}
	return p.Payout - p.Stake
}

// Pick is one prediction inside a parlay
type Pick struct {
	ID        int       `db:"id" json:"id"`
	ParlayID  int       `db:"parlay_id" json:"parlay_id"`
	PropID    int       `db:"prop_id" json:"prop_id"`
	Choice    string    `db:"choice" json:"choice"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Terminal reports whether the pick has reached a final status.
func (p *Pick) Terminal() bool {
	return p.Status != PickNotResolved
}

// Voided reports whether the pick is excluded from the effective count.
func (p *Pick) Voided() bool {
	return p.Status == PickTie || p.Status == PickDidNotPlay
}

// Message is a chat message inside a match
type Message struct {
	ID        int       `db:"id" json:"id"`
	MatchID   int       `db:"match_id" json:"match_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FriendlyMatchRequest is an invitation for a friendly match
type FriendlyMatchRequest struct {
	ID         int       `db:"id" json:"id"`
	OutgoingID string    `db:"outgoing_id" json:"outgoing_id"`
	IncomingID string    `db:"incoming_id" json:"incoming_id"`
	League     string    `db:"league" json:"league"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Friendly match request statuses
const (
	FriendlyRequestPending  = "pending"
	FriendlyRequestAccepted = "accepted"
	FriendlyRequestDeclined = "declined"
)

// ValidateParlayShape checks pick count bounds against the parlay type.
// Flex plays need at least 3 picks at creation, perfect plays at least 2,
// and no parlay may exceed 6 picks.
func ValidateParlayShape(parlayType string, pickCount int) error {
	if parlayType != ParlayTypeFlex && parlayType != ParlayTypePerfect {
		return fmt.Errorf("unknown parlay type %q", parlayType)
	}
	if pickCount > 6 {
		return fmt.Errorf("too many picks: %d (max 6)", pickCount)
	}
	if parlayType == ParlayTypeFlex && pickCount < 3 {
		return fmt.Errorf("flex play needs at least 3 picks, got %d", pickCount)
	}
	if parlayType == ParlayTypePerfect && pickCount < 2 {
		return fmt.Errorf("perfect play needs at least 2 picks, got %d", pickCount)
	}
	return nil
}
