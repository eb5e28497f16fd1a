package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ugaemi/pacman-server/internal/game"
)

type Config struct {
	Port           int
	LogLevel       string
	LogFormat      string
	StoreDriver    string
	DatabaseURL    string
	SQLitePath     string
	DifficultyPath string
	MazeDir        string
	MazeID         string
	TickRate       int
	PersistTimeout time.Duration
	LevelDelay     time.Duration
}

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreNone     = "none"
)

func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		StoreDriver:    getEnv("STORE_DRIVER", StoreSQLite),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/pacman?sslmode=disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "pacman.db"),
		DifficultyPath: getEnv("DIFFICULTY_PATH", ""),
		MazeDir:        getEnv("MAZE_DIR", ""),
		MazeID:         getEnv("MAZE_ID", "classic"),
		TickRate:       getEnvInt("TICK_RATE", game.TickRate),
		PersistTimeout: getEnvDuration("PERSIST_TIMEOUT", 5*time.Second),
		LevelDelay:     getEnvDuration("LEVEL_DELAY", 3*time.Second),
	}
}

// TickInterval is the wall time between two ticks of a running session.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return game.TickInterval
	}
	return time.Second / time.Duration(c.TickRate)
}

// StoreDSN is the connection string for the configured store driver.
func (c *Config) StoreDSN() string {
	switch c.StoreDriver {
	case StorePostgres:
		return c.DatabaseURL
	case StoreSQLite:
		return c.SQLitePath
	default:
		return ""
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
