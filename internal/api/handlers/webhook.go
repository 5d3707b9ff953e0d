package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/parlay"
)

// PropUpdateWebhook receives prop value updates from the stats provider.
// Live updates only bump current_value; once resolved=true the prop is
// closed and every pick on it settles.
func PropUpdateWebhook(db *sqlx.DB, engine *parlay.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PropID     int     `json:"prop_id"`
			FinalValue float64 `json:"final_value"`
			Resolved   bool    `json:"resolved"`
			DidNotPlay bool    `json:"did_not_play"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		res, err := db.ExecContext(c.Request.Context(),
			`UPDATE props
			 SET current_value = $1, resolved = $2, did_not_play = $3
			 WHERE id = $4 AND resolved = FALSE`,
			req.FinalValue, req.Resolved, req.DidNotPlay, req.PropID)
		if err != nil {
			log.Printf("[WEBHOOK] Failed to update prop %d: %v", req.PropID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update prop"})
			return
		}
		updated := true
		if n, _ := res.RowsAffected(); n == 0 {
			// Unknown prop, or a retried callback for one already closed.
			var resolved bool
			err := db.GetContext(c.Request.Context(), &resolved,
				`SELECT resolved FROM props WHERE id = $1`, req.PropID)
			if err != nil || !resolved {
				// Nothing to fan out; acknowledge so the provider stops.
				c.JSON(http.StatusOK, gin.H{"updated": false})
				return
			}
			updated = false
		}

		// Fan out for every closed prop, retries included: a settlement
		// that failed after the resolved flip recovers on the next
		// callback because ResolveProp is idempotent.
		if req.Resolved {
			if err := engine.ResolveProp(c.Request.Context(), req.PropID); err != nil {
				log.Printf("[WEBHOOK] Failed to resolve picks for prop %d: %v", req.PropID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve prop"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}
