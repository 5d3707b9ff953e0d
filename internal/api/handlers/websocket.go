package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/ws"
)

// ServeWS upgrades the connection and registers the client with the hub.
// Browsers cannot set headers on WebSocket upgrades, so the JWT arrives as
// a query parameter instead of a bearer header.
func ServeWS(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		userID, err := userIDFromToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		matchID := 0
		if raw := c.Query("match_id"); raw != "" {
			matchID, err = strconv.Atoi(raw)
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
		}

		if err := ws.Serve(db, c.Writer, c.Request, userID, matchID); err != nil {
			log.Printf("[WS] Upgrade failed for user %s: %v", userID, err)
		}
	}
}

func userIDFromToken(cfg *config.Config, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("missing token")
	}
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("missing user id claim")
	}
	return userID, nil
}
