package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/database"
)

// Seeds a pair of demo users and a small slate of props for today so the
// matchmaker and parlay flow can be exercised locally without live feeds.
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

	users := []string{"demo_alice", "demo_bob"}
	for _, username := range users {
		id := uuid.NewString()
		if _, err := db.Exec(`
			INSERT INTO users (id, username, rating)
			VALUES ($1, $2, 1000)
			ON CONFLICT (username) DO NOTHING
		`, id, username); err != nil {
			log.Fatalf("Failed to seed user %s: %v", username, err)
		}
		log.Printf("✓ User %s ready", username)
	}

	gameID := fmt.Sprintf("demo-%s", time.Now().Format("2006-01-02"))
	props := []struct {
		playerID   int
		playerName string
		statName   string
		line       float64
	}{
		{101, "Demo Guard", "points", 24.5},
		{101, "Demo Guard", "assists", 6.5},
		{102, "Demo Forward", "points", 18.5},
		{102, "Demo Forward", "rebounds", 9.5},
		{103, "Demo Center", "rebounds", 11.5},
		{103, "Demo Center", "blocks", 1.5},
	}

	for _, p := range props {
		if _, err := db.Exec(`
			INSERT INTO props (league, game_id, player_id, player_name, stat_name, line, current_value)
			VALUES ($1, $2, $3, $4, $5, $6, 0)
		`, cfg.Leagues[0], gameID, p.playerID, p.playerName, p.statName, p.line); err != nil {
			log.Fatalf("Failed to seed prop %s %s: %v", p.playerName, p.statName, err)
		}
	}

	log.Printf("✓ Seeded %d props for game %s (%s)", len(props), gameID, cfg.Leagues[0])
}
