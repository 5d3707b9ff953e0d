package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/middleware"
	"github.com/pickduel/backend/internal/models"
	"github.com/pickduel/backend/internal/parlay"
)

// PlaceParlay places a parlay for the authenticated user in a match
func PlaceParlay(engine *parlay.Engine) gin.HandlerFunc {
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

		var req parlay.PlaceRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		parlayID, err := engine.Place(c.Request.Context(), userID, matchID, req)
		if err != nil {
			switch {
			case errors.Is(err, parlay.ErrMatchClosed):
				c.JSON(http.StatusConflict, gin.H{"error": "match is closed for new parlays"})
			case errors.Is(err, parlay.ErrParticipantNotFound):
				c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this match"})
			case errors.Is(err, parlay.ErrInsufficientStake),
				errors.Is(err, parlay.ErrStakeOverBalance),
				errors.Is(err, parlay.ErrPropResolved),
				errors.Is(err, parlay.ErrDuplicateProp):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"parlay_id": parlayID})
	}
}

type parlayWithPicks struct {
	models.Parlay
	UserID string       `db:"user_id" json:"user_id"`
	Picks  []parlayPick `json:"picks"`
}

type parlayPick struct {
	models.Pick
	PlayerName string  `db:"player_name" json:"player_name"`
	StatName   string  `db:"stat_name" json:"stat_name"`
	Line       float64 `db:"line" json:"line"`
}

// GetMatchParlays lists both participants' parlays with their picks
func GetMatchParlays(db *sqlx.DB) gin.HandlerFunc {
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

		var member int
		if err := db.GetContext(c.Request.Context(), &member,
			`SELECT COUNT(*) FROM match_users WHERE match_id = $1 AND user_id = $2`,
			matchID, userID); err != nil || member == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this match"})
			return
		}

		var parlays []parlayWithPicks
		if err := db.SelectContext(c.Request.Context(), &parlays,
			`SELECT p.id, p.participant_id, p.type, p.stake, p.resolved, p.payout,
			        p.created_at, mu.user_id
			 FROM parlays p
			 JOIN match_users mu ON mu.id = p.participant_id
			 WHERE mu.match_id = $1
			 ORDER BY p.created_at DESC`, matchID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch parlays"})
			return
		}

		for i := range parlays {
			if err := db.SelectContext(c.Request.Context(), &parlays[i].Picks,
				`SELECT pk.id, pk.parlay_id, pk.prop_id, pk.choice, pk.status, pk.created_at,
				        pr.player_name, pr.stat_name, pr.line
				 FROM picks pk
				 JOIN props pr ON pr.id = pk.prop_id
				 WHERE pk.parlay_id = $1
				 ORDER BY pk.id`, parlays[i].ID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch picks"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"parlays": parlays})
	}
}
