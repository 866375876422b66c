package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/danutama/loan-tracker/internal/config"
	"github.com/danutama/loan-tracker/internal/logging"
	"github.com/danutama/loan-tracker/internal/notify"
	"github.com/danutama/loan-tracker/internal/repository"
	"github.com/danutama/loan-tracker/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)
	logger.Info("Starting reminder scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var dispatcher notify.Dispatcher = notify.Noop{}
	if cfg.SMS.Enabled {
		dispatcher = notify.NewTwilioDispatcher(cfg.SMS, logger)
	}

	reminders := service.NewReminderService(
		repository.NewLoanRepository(db),
		repository.NewPaymentRepository(db),
		dispatcher,
		cfg.SMS.DefaultTo,
		logger,
	)

	location, err := time.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		logger.Fatalf("Invalid REMINDER_TIMEZONE: %v", err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Reminder.Schedule, func() {
		logger.Info("Running EMI reminder job...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		sent, err := reminders.Run(ctx)
		if err != nil {
			logger.WithError(err).Error("reminder job failed")
			return
		}
		logger.WithField("sent", sent).Info("reminder job finished")
	})
	if err != nil {
		logger.Fatalf("Invalid REMINDER_SCHEDULE: %v", err)
	}

	c.Start()
	logger.Info("Scheduler started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("Scheduler stopped")
}
