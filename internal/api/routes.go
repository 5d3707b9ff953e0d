package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/api/handlers"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/middleware"
	"github.com/pickduel/backend/internal/parlay"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, engine *parlay.Engine, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Stats provider callbacks (API-key guarded)
		v1.POST("/webhooks/props", middleware.FeedKeyMiddleware(cfg), handlers.PropUpdateWebhook(db, engine))

		// WebSocket (token authenticated via query param)
		v1.GET("/ws", handlers.ServeWS(db, cfg))

		// Authenticated endpoints
		auth := v1.Group("")
		auth.Use(middleware.AuthMiddleware(cfg))
		{
			matchmaking := auth.Group("/matchmaking")
			{
				matchmaking.POST("/search", handlers.StartSearch(db, cfg))
				matchmaking.POST("/cancel", handlers.CancelSearch(db))
			}

			matches := auth.Group("/matches")
			{
				matches.GET("", handlers.GetMyMatches(db))
				matches.GET("/:id", handlers.GetMatch(db))
				matches.GET("/:id/parlays", handlers.GetMatchParlays(db))
				matches.POST("/:id/parlays", handlers.PlaceParlay(engine))
				matches.GET("/:id/messages", handlers.GetMatchMessages(db))
			}

			auth.GET("/props", handlers.GetOpenProps(db, cfg))

			friendly := auth.Group("/friendly-requests")
			{
				friendly.GET("", handlers.GetMyFriendlyRequests(db))
				friendly.POST("", handlers.SendFriendlyRequest(db, cfg))
				friendly.POST("/:id/respond", handlers.RespondFriendlyRequest(db))
			}
		}
	}
}
