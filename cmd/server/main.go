package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pickduel/backend/internal/api"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/database"
	"github.com/pickduel/backend/internal/match"
	"github.com/pickduel/backend/internal/matchmaking"
	"github.com/pickduel/backend/internal/migrations"
	"github.com/pickduel/backend/internal/notify"
	"github.com/pickduel/backend/internal/parlay"
	"github.com/pickduel/backend/internal/rating"
	"github.com/pickduel/backend/internal/redis"
	"github.com/pickduel/backend/internal/schedule"
	"github.com/pickduel/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	notifier := notify.New(rdb)
	feed := schedule.NewClient(cfg)
	engine := parlay.NewEngine(db, cfg, notifier)
	updater := rating.NewUpdater(cfg.EloKFactor)

	// Fan realtime events from Redis out to connected WebSocket clients
	ws.StartEventSubscriber(context.Background(), rdb)

	// Start matchmaker worker (pairs queued users into matches)
	matchmaker := matchmaking.NewWorker(db, cfg, feed, notifier)
	go matchmaker.Start(context.Background())

	// Start match resolver (settles matches once the day's games are final)
	resolver := match.NewResolver(db, cfg, feed, updater, notifier)
	go resolver.Start(context.Background())

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, engine, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PickDuel server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
