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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/server/internal/auth"
	"github.com/carelink/server/internal/config"
	"github.com/carelink/server/internal/db"
	"github.com/carelink/server/internal/doctors"
	httphandler "github.com/carelink/server/internal/http"
	"github.com/carelink/server/internal/http/handlers"
	"github.com/carelink/server/internal/messaging"
	"github.com/carelink/server/internal/repo"
	"github.com/carelink/server/internal/validate"
)

func main() {
	// Load .env if present; variables already set in the environment win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Create context for startup operations
	ctx := context.Background()

	// Open database connection
	database, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		return err
	}

	// Initialize repositories
	accountRepo := repo.NewAccountRepo(database)
	doctorRepo := repo.NewDoctorRepo(database)
	messageRepo := repo.NewMessageRepo(database)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewAuthService(jwtService, auth.NewBcryptHasher(bcrypt.DefaultCost), accountRepo)
	doctorService := doctors.NewService(doctorRepo)
	messageService := messaging.NewService(messageRepo, accountRepo)

	// Initialize handlers
	gate := validate.New(cfg.PhoneLength)
	router := httphandler.NewRouter(httphandler.Handlers{
		Accounts: handlers.NewAccountHandler(authService, gate, logger, cfg.StoreTimeout),
		Doctors:  handlers.NewDoctorHandler(doctorService, gate, logger, cfg.StoreTimeout),
		Messages: handlers.NewMessageHandler(messageService, gate, logger, cfg.StoreTimeout),
		Health:   handlers.NewHealthHandler(database, logger, cfg.StoreTimeout),
	}, jwtService, cfg.AuthRateLimit, logger)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second + cfg.StoreTimeout,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
