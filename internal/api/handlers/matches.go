package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/middleware"
	"github.com/pickduel/backend/internal/models"
)

// GetMatch returns a match with both participants. Only participants may view it.
func GetMatch(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		matchID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
			return
		}

		var m models.Match
		if err := db.GetContext(c.Request.Context(), &m,
			`SELECT id, league, kind, starting_balance, ends_at, resolved, created_at
			 FROM matches WHERE id = $1`, matchID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch match"})
			return
		}

		var participants []struct {
			models.Participant
			Username string  `db:"username" json:"username"`
			Rating   float64 `db:"rating" json:"rating"`
		}
		if err := db.SelectContext(c.Request.Context(), &participants,
			`SELECT mu.id, mu.match_id, mu.user_id, mu.balance, mu.total_staked,
			        mu.parlay_count, mu.status, mu.elo_delta, mu.created_at,
			        u.username, u.rating
			 FROM match_users mu
			 JOIN users u ON u.id = mu.user_id
			 WHERE mu.match_id = $1
			 ORDER BY mu.id`, matchID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch participants"})
			return
		}

		isParticipant := false
		for _, p := range participants {
			if p.UserID == userID {
				isParticipant = true
			}
		}
		if !isParticipant {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this match"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m, "participants": participants})
	}
}

// GetMyMatches lists the authenticated user's matches, most recent first
func GetMyMatches(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var rows []struct {
			models.Match
			Balance  float64 `db:"balance" json:"balance"`
			Status   string  `db:"status" json:"status"`
			EloDelta float64 `db:"elo_delta" json:"elo_delta"`
		}
		if err := db.SelectContext(c.Request.Context(), &rows,
			`SELECT m.id, m.league, m.kind, m.starting_balance, m.ends_at,
			        m.resolved, m.created_at,
			        mu.balance, mu.status, mu.elo_delta
			 FROM matches m
			 JOIN match_users mu ON mu.match_id = m.id
			 WHERE mu.user_id = $1
			 ORDER BY m.created_at DESC
			 LIMIT 50`, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch matches"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"matches": rows})
	}
}
