package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/middleware"
	"github.com/pickduel/backend/internal/models"
)

// SendFriendlyRequest invites another user to queue for a friendly match
func SendFriendlyRequest(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			UserID string `json:"user_id"`
			League string `json:"league"`
		}
		if err := c.BindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and league required"})
			return
		}
		if req.UserID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot invite yourself"})
			return
		}
		if !validLeague(cfg, req.League) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown league"})
			return
		}

		var id int
		err := db.QueryRowxContext(c.Request.Context(),
			`INSERT INTO friendly_match_requests (outgoing_id, incoming_id, league, status)
			 SELECT $1, $2, $3, $4
			 WHERE NOT EXISTS (
			     SELECT 1 FROM friendly_match_requests
			     WHERE outgoing_id = $1 AND incoming_id = $2 AND league = $3
			       AND status = $4
			 )
			 RETURNING id`,
			userID, req.UserID, req.League, models.FriendlyRequestPending).Scan(&id)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "request already pending"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"request_id": id, "status": models.FriendlyRequestPending})
	}
}

// RespondFriendlyRequest accepts or declines a pending friendly request.
// Only the invited user may respond.
func RespondFriendlyRequest(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		requestID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		var req struct {
			Accept bool `json:"accept"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		status := models.FriendlyRequestDeclined
		if req.Accept {
			status = models.FriendlyRequestAccepted
		}

		res, err := db.ExecContext(c.Request.Context(),
			`UPDATE friendly_match_requests
			 SET status = $1, updated_at = NOW()
			 WHERE id = $2 AND incoming_id = $3 AND status = $4`,
			status, requestID, userID, models.FriendlyRequestPending)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update request"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending request found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

// GetMyFriendlyRequests lists pending requests involving the authenticated user
func GetMyFriendlyRequests(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var requests []models.FriendlyMatchRequest
		if err := db.SelectContext(c.Request.Context(), &requests,
			`SELECT id, outgoing_id, incoming_id, league, status, created_at, updated_at
			 FROM friendly_match_requests
			 WHERE (outgoing_id = $1 OR incoming_id = $1) AND status = $2
			 ORDER BY created_at DESC`,
			userID, models.FriendlyRequestPending); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch requests"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"requests": requests})
	}
}
