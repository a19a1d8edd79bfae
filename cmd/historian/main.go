// cmd/historian is an asynchronous historian service that pops game action
// records from a Redis queue and persists them to a PostgreSQL database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/bluff/internal/cache"
	"github.com/jason-s-yu/bluff/internal/config"
	"github.com/jason-s-yu/bluff/internal/database"
	"github.com/jason-s-yu/bluff/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Fatal("historian needs DATABASE_URL or PG_HOST")
	}
	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer database.Close()

	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb, err := cache.ConnectRedis(ctx, addr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	svc := historian.NewService(cache.NewQueue(rdb, cfg.QueueName), database.Store{}, historian.Options{
		BatchSize:  cfg.HistorianBatchSize,
		FlushDelay: time.Duration(cfg.HistorianFlushMs) * time.Millisecond,
		Inactivity: time.Duration(cfg.InactivityTimeoutSec) * time.Second,
	}, logger)
	svc.Run(ctx)
	logger.Info("historian shutdown complete")
}
