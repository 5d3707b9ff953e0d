package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Match Settings
	StartingBalance    float64
	MinStakePct        float64
	MinParlaysRequired int
	MinPctTotalStaked  float64
	MatchEndBufferHrs  int
	EloKFactor         float64
	Leagues            []string

	// Workers
	MatchmakerPollSeconds int
	ResolverPollSeconds   int

	// Schedule feed
	ScheduleFeedBaseURL string
	ScheduleFeedAPIKey  string

	// Prop feed webhook
	PropFeedAPIKey string

	// Security
	JWTSecret string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/pickduel?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Match Settings
		StartingBalance:    getEnvFloat("STARTING_BALANCE", 200),
		MinStakePct:        getEnvFloat("MIN_STAKE_PCT", 0.2),
		MinParlaysRequired: getEnvInt("MIN_PARLAYS_REQUIRED", 2),
		MinPctTotalStaked:  getEnvFloat("MIN_PCT_TOTAL_STAKED", 0.6),
		MatchEndBufferHrs:  getEnvInt("MATCH_END_BUFFER_HOURS", 3),
		EloKFactor:         getEnvFloat("ELO_K_FACTOR", 32),
		Leagues:            getEnvList("LEAGUES", "NBA,MLB"),

		// Workers
		MatchmakerPollSeconds: getEnvInt("MATCHMAKER_POLL_SECONDS", 5),
		ResolverPollSeconds:   getEnvInt("RESOLVER_POLL_SECONDS", 60),

		// Schedule feed
		ScheduleFeedBaseURL: getEnv("SCHEDULE_FEED_BASE_URL", ""),
		ScheduleFeedAPIKey:  getEnv("SCHEDULE_FEED_API_KEY", ""),

		// Prop feed webhook
		PropFeedAPIKey: getEnv("PROP_FEED_API_KEY", ""),

		// Security
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
