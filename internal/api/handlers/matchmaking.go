package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/matchmaking"
	"github.com/pickduel/backend/internal/middleware"
	"github.com/pickduel/backend/internal/models"
)

// StartSearch enqueues the authenticated user for matchmaking
func StartSearch(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			League string `json:"league"`
			Kind   string `json:"kind"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "league and kind required"})
			return
		}
		if req.Kind == "" {
			req.Kind = models.MatchKindCompetitive
		}
		if !validLeague(cfg, req.League) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown league"})
			return
		}

		token, err := matchmaking.Enqueue(c.Request.Context(), db, userID, req.League, req.Kind)
		if err != nil {
			switch {
			case errors.Is(err, matchmaking.ErrAlreadySearching):
				c.JSON(http.StatusConflict, gin.H{"error": "already searching in this league"})
			case errors.Is(err, matchmaking.ErrUnknownMatchKind):
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown match kind"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start search"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "status": models.TicketQueued})
	}
}

// CancelSearch cancels the authenticated user's queued ticket for a league
func CancelSearch(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			League string `json:"league"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "league required"})
			return
		}

		if err := matchmaking.Cancel(c.Request.Context(), db, userID, req.League); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel search"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"cancelled": true})
	}
}

func validLeague(cfg *config.Config, league string) bool {
	for _, l := range cfg.Leagues {
		if l == league {
			return true
		}
	}
	return false
}
