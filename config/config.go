package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/fairwaycup/matchplay/engine"
)

// Config holds all runtime parameters for the application.
type Config struct {
	DatabaseURL        string
	ServerPort         int
	JWTSecretKey       string
	TournamentPassword string
	AdminPassword      string

	BracketPairing  engine.PairingPolicy
	LeaderboardCron string
	CachePath       string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Configured reports whether object storage archiving is available.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// Load reads configuration from environment variables, optionally
// seeded from a .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	tournamentPassword := os.Getenv("TOURNAMENT_PASSWORD")
	if tournamentPassword == "" {
		return nil, fmt.Errorf("TOURNAMENT_PASSWORD environment variable is not set")
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	pairing := engine.PairingPolicy(os.Getenv("BRACKET_PAIRING"))
	if pairing == "" {
		pairing = engine.PairingAdjacent
	}
	if !pairing.Valid() {
		return nil, fmt.Errorf("BRACKET_PAIRING must be %q or %q, got %q",
			engine.PairingAdjacent, engine.PairingSeeded, pairing)
	}

	cronSpec := os.Getenv("LEADERBOARD_CRON")
	if cronSpec == "" {
		cronSpec = "*/5 * * * *"
	}

	cachePath := os.Getenv("CACHE_PATH")
	if cachePath == "" {
		cachePath = "data/leaderboard.db"
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		JWTSecretKey:       jwtKey,
		TournamentPassword: tournamentPassword,
		AdminPassword:      adminPassword,
		BracketPairing:     pairing,
		LeaderboardCron:    cronSpec,
		CachePath:          cachePath,
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}
