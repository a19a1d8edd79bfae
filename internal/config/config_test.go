package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"BLUFF_PORT", "LOG_LEVEL", "REDIS_ADDR", "DATABASE_URL", "PG_HOST", "BLUFF_SEED", "HISTORIAN_BATCH_SIZE"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "bluff_actions", cfg.QueueName)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, 20, cfg.HistorianBatchSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BLUFF_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BLUFF_SEED", "42")
	t.Setenv("HISTORIAN_BATCH_SIZE", "not-a-number")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PG_HOST", "db")
	t.Setenv("POSTGRES_USER", "bluff")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_DATABASE", "games")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, logrus.DebugLevel, cfg.NewLogger().GetLevel())
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 20, cfg.HistorianBatchSize, "unparsable values fall back to the default")
	assert.Equal(t, "postgres://bluff:secret@db:5432/games", cfg.DatabaseURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("BLUFF_SEED", "abc")
	_, err = Load()
	assert.Error(t, err)
}
