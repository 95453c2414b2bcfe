package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription_tracker_bot/internal/app"
	"subscription_tracker_bot/internal/infra/config"
	idb "subscription_tracker_bot/internal/infra/database"
	"subscription_tracker_bot/internal/infra/logger"
	"subscription_tracker_bot/internal/infra/scheduler"
	"subscription_tracker_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Subscription Tracker Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Owner ID: %d, Sweep spec: %s",
		cfg.LogLevel, cfg.Environment, cfg.OwnerTelegramID, cfg.CronSpecSweep)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize Repositories
	subRepo := idb.NewPostgresSubscriptionRepository(db)
	ledger := idb.NewPostgresReminderLedger(db)
	mainLogger.Info("Repositories initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	// Initialize Services
	notifier := telegram.NewTelebotNotifier(bot, cfg.OwnerTelegramID)
	subsService := app.NewSubscriptionService(subRepo, ledger, notifier,
		logger.Get().WithField("component", "subscription_service"), app.SystemClock)
	reminderService := app.NewReminderService(subRepo, ledger, notifier,
		logger.Get().WithField("component", "reminder_service"), app.SystemClock, cfg.ReminderWindowDays)
	mainLogger.Info("Services initialized.")

	// Initialize SweepScheduler
	sweepScheduler := scheduler.NewSweepScheduler(reminderService,
		logger.Get().WithField("component", "scheduler"), cfg.CronSpecSweep)
	sweepScheduler.Start() // Runs one sweep immediately, then hourly

	// Register Handlers
	telegram.RegisterBotCommands(context.Background(), bot, cfg, subsService, reminderService,
		logger.Get().WithField("component", "telegram"))
	mainLogger.Info("Owner command handlers registered.")

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	sweepScheduler.Stop()
	bot.Stop()
	// db.Close() is handled by defer
	mainLogger.Info("Application shut down gracefully.")
}
