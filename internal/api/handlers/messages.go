package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/middleware"
	"github.com/pickduel/backend/internal/models"
)

// GetMatchMessages returns the chat history for a match
func GetMatchMessages(db *sqlx.DB) gin.HandlerFunc {
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

		var messages []models.Message
		if err := db.SelectContext(c.Request.Context(), &messages,
			`SELECT id, match_id, user_id, content, created_at
			 FROM messages
			 WHERE match_id = $1
			 ORDER BY created_at ASC
			 LIMIT 200`, matchID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch messages"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}
