package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/models"
)

// GetOpenProps lists today's unresolved props for a league
func GetOpenProps(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		league := c.Query("league")
		if !validLeague(cfg, league) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown league"})
			return
		}

		var props []models.Prop
		if err := db.SelectContext(c.Request.Context(), &props,
			`SELECT id, league, game_id, player_id, player_name, stat_name, line,
			        current_value, resolved, did_not_play, created_at
			 FROM props
			 WHERE league = $1 AND resolved = FALSE AND created_at >= CURRENT_DATE
			 ORDER BY player_name, stat_name`, league); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch props"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"props": props})
	}
}
