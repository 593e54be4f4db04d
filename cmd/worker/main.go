package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gymdesk/internal/config"
	"gymdesk/internal/services"
	"gymdesk/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Sync()

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	notifier, err := services.NewNotifier(cfg.ReminderConfig, logger)
	if err != nil {
		logger.Fatal("notifier setup failed", zap.Error(err))
	}
	tasks.DefineTasks(notifier, cfg.ReminderDays, logger)
	runner := tasks.NewRunner(db, logger)

	logger.Info("worker started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down worker")
		cancel()
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	// Run once on start so a task due in the past does not wait a tick.
	runner.ProcessDue(ctx)

	for {
		select {
		case <-ticker.C:
			runner.ProcessDue(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
