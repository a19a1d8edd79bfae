// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config is the process configuration read from the environment. The cmd/
// mains load a .env file first through godotenv's autoload.
type Config struct {
	Port     string // BLUFF_PORT, default 8080
	LogLevel logrus.Level

	RedisAddr string // REDIS_ADDR; empty disables action publishing
	RedisDB   int
	QueueName string // HISTORIAN_QUEUE_NAME

	DatabaseURL string // DATABASE_URL, or assembled from POSTGRES_USER/PG_HOST/...; empty disables storage

	Seed int64 // BLUFF_SEED; 0 picks a random seed per game

	HistorianBatchSize   int
	HistorianFlushMs     int
	InactivityTimeoutSec int // GAME_INACTIVITY_TIMEOUT_SEC
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	seed, err := strconv.ParseInt(getEnv("BLUFF_SEED", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("BLUFF_SEED: %w", err)
	}
	return Config{
		Port:                 getEnv("BLUFF_PORT", "8080"),
		LogLevel:             level,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		QueueName:            getEnv("HISTORIAN_QUEUE_NAME", "bluff_actions"),
		DatabaseURL:          databaseURL(),
		Seed:                 seed,
		HistorianBatchSize:   getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		HistorianFlushMs:     getEnvInt("HISTORIAN_FLUSH_MS", 500),
		InactivityTimeoutSec: getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 600),
	}, nil
}

// NewLogger builds the process logger at the configured level.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	return logger
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	if os.Getenv("PG_HOST") == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		getEnv("PG_PORT", "5432"),
		os.Getenv("PG_DATABASE"),
	)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
