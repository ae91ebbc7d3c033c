package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	IdentityStoreSQLite   = "sqlite"
	IdentityStorePostgres = "postgres"
	IdentityStoreMemory   = "memory"

	LeaderboardOrderPoints   = "points"
	LeaderboardOrderDistance = "distance"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	ServerURL            string
	IdentityStore        string
	SQLitePath           string
	PostgresDSN          string
	LeaderboardOrder     string
	RevealZoom           int
	Compress             bool
	ReconnectMaxInterval time.Duration
	TickInterval         time.Duration
	LogLevel             string
}

func Default() Config {
	return Config{
		ServerURL:            "ws://localhost:4242/ws",
		IdentityStore:        IdentityStoreSQLite,
		SQLitePath:           "geoquiz.db",
		LeaderboardOrder:     LeaderboardOrderPoints,
		RevealZoom:           6,
		ReconnectMaxInterval: 30 * time.Second,
		TickInterval:         50 * time.Millisecond,
		LogLevel:             "info",
	}
}

// Load returns the defaults overridden by any valid GEOQUIZ_* environment variables.
func Load() Config {
	cfg := Default()
	if raw := os.Getenv("GEOQUIZ_SERVER_URL"); raw != "" {
		cfg.ServerURL = raw
	}
	if raw := strings.ToLower(os.Getenv("GEOQUIZ_IDENTITY_STORE")); raw != "" {
		switch raw {
		case IdentityStoreSQLite, IdentityStorePostgres, IdentityStoreMemory:
			cfg.IdentityStore = raw
		}
	}
	if raw := os.Getenv("GEOQUIZ_SQLITE_PATH"); raw != "" {
		cfg.SQLitePath = raw
	}
	if raw := os.Getenv("GEOQUIZ_POSTGRES_DSN"); raw != "" {
		cfg.PostgresDSN = raw
	}
	if raw := strings.ToLower(os.Getenv("GEOQUIZ_LEADERBOARD_ORDER")); raw != "" {
		switch raw {
		case LeaderboardOrderPoints, LeaderboardOrderDistance:
			cfg.LeaderboardOrder = raw
		}
	}
	if raw := os.Getenv("GEOQUIZ_REVEAL_ZOOM"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RevealZoom = value
		}
	}
	if raw := os.Getenv("GEOQUIZ_COMPRESS"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Compress = value
		}
	}
	if raw := os.Getenv("GEOQUIZ_RECONNECT_MAX_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ReconnectMaxInterval = time.Duration(value) * time.Second
		}
	}
	if raw := os.Getenv("GEOQUIZ_TICK_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TickInterval = time.Duration(value) * time.Millisecond
		}
	}
	if raw := os.Getenv("GEOQUIZ_LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	return cfg
}
