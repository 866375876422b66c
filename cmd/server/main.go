package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/danutama/loan-tracker/internal/config"
	"github.com/danutama/loan-tracker/internal/handler"
	"github.com/danutama/loan-tracker/internal/logging"
	"github.com/danutama/loan-tracker/internal/notify"
	"github.com/danutama/loan-tracker/internal/repository"
	"github.com/danutama/loan-tracker/internal/service"
	"github.com/danutama/loan-tracker/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize notification dispatcher
	var dispatcher notify.Dispatcher = notify.Noop{}
	if cfg.SMS.Enabled {
		dispatcher = notify.NewTwilioDispatcher(cfg.SMS, logger)
	}

	// Initialize services
	accountService := service.NewAccountService(userRepo, logger)
	loanService := service.NewLoanService(loanRepo, paymentRepo, dispatcher, redisClient, logger)

	// Initialize handlers
	renderer, err := handler.NewRenderer(logger)
	if err != nil {
		logger.Fatalf("Failed to parse templates: %v", err)
	}
	sessionManager := handler.NewSessionManager(cfg.Session, accountService)
	authHandler := handler.NewAuthHandler(accountService, sessionManager, renderer, logger)
	loanHandler := handler.NewLoanHandler(loanService, sessionManager, renderer, logger)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(authHandler, loanHandler, healthHandler, logger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(authHandler *handler.AuthHandler, loanHandler *handler.LoanHandler, healthHandler *handler.HealthHandler, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health checks
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Pages and session
	router.HandleFunc("/", authHandler.Home).Methods("GET")
	router.HandleFunc("/register-borrower", authHandler.RegisterBorrower).Methods("GET", "POST")
	router.HandleFunc("/user-login", authHandler.UserLogin).Methods("GET", "POST")
	router.HandleFunc("/admin-login", authHandler.AdminLogin).Methods("GET", "POST")
	router.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	// Loan ledger
	router.HandleFunc("/create-loan", loanHandler.CreateLoan).Methods("GET", "POST")
	router.HandleFunc("/loan/{id}", loanHandler.LoanView).Methods("GET")
	router.HandleFunc("/loan/{id}/download", loanHandler.Download).Methods("GET")
	router.HandleFunc("/payment-entry", loanHandler.PaymentEntry).Methods("POST")
	router.HandleFunc("/calculate-emi", loanHandler.CalculateEMI).Methods("POST")
	router.HandleFunc("/admin-dashboard", loanHandler.AdminDashboard).Methods("GET")
	router.HandleFunc("/user_loans", loanHandler.UserLoans).Methods("GET")

	return router
}
