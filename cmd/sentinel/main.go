package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GoalSentinel/internal/alert"
	"GoalSentinel/internal/analyzer"
	"GoalSentinel/internal/config"
	"GoalSentinel/internal/scheduler"
	"GoalSentinel/internal/store"

	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.Info("GoalSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config validation: %v", err)
	}

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.WithError(err).Warn("init sqlite store failed, using in-memory store")
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init notification collaborator
	var notifier alert.Notifier
	switch {
	case cfg.Telegram.BotToken != "":
		notifier = alert.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	case cfg.Email.Host != "":
		notifier = alert.NewEmailNotifier(alert.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
		}, logger)
	default:
		notifier = alert.NewNoopNotifier()
	}
	logger.WithField("notifier", notifier.Name()).Info("notification collaborator ready")

	dispatcher := alert.NewDispatcher(notifier, logger)

	anl := analyzer.New(st, dispatcher, logger, analyzer.SystemClock(), analyzer.Config{
		Workers:     cfg.Analysis.Workers,
		UserTimeout: time.Duration(cfg.Analysis.UserTimeoutSeconds) * time.Second,
		SweepTTL:    time.Duration(cfg.Analysis.SweepTTLMinutes) * time.Minute,
	})

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.New(ctx, anl, logger)
	if err := sched.RegisterDaily(cfg.Schedule.DailyCron); err != nil {
		logger.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run a sweep immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing sweep now")
		go func() {
			if summary, err := sched.RunNow(ctx); err != nil {
				logger.WithError(err).Error("startup sweep failed")
			} else {
				logger.WithFields(logrus.Fields{
					"run_id":   summary.RunID,
					"analyzed": summary.UsersAnalyzed,
				}).Info("startup sweep completed")
			}
		}()
	}

	logger.Info("GoalSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping...")
	cancel()
	logger.Info("GoalSentinel stopped")
}
