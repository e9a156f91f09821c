package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/api"
	"github.com/jonesrussell/moderation/internal/config"
	"github.com/jonesrussell/moderation/internal/handlers"
	"github.com/jonesrussell/moderation/internal/logger"
	"github.com/jonesrussell/moderation/internal/mailer"
	"github.com/jonesrussell/moderation/internal/metrics"
	"github.com/jonesrussell/moderation/internal/repository"
	"github.com/jonesrussell/moderation/internal/review"

	_ "github.com/lib/pq"
)

// Database connection pool settings.
const (
	dbPingTimeout     = 5 * time.Second
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 5 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	smtp, err := mailer.New(cfg.Mail)
	if err != nil {
		log.Error("Failed to create mailer", logger.Error(err))
		return 1
	}

	// Validated by config.Validate
	systemAccount := uuid.MustParse(cfg.Review.SystemAccountID)

	authorRepo := repository.NewAuthorRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	queue := review.NewQueueBuilder(authorRepo, cfg.Review.ActivityThreshold)
	svc := review.NewService(queue, authorRepo, entryRepo, messageRepo, auditRepo, smtp, systemAccount, log)

	m := metrics.New()
	noviceHandler := handlers.NewNoviceHandler(svc, m, log)
	healthHandler := handlers.NewHealthHandler(db, cfg.Service.Name, cfg.Service.Version)

	server := api.NewServer(cfg, log, func(router *gin.Engine) {
		api.SetupRoutes(router, noviceHandler, healthHandler, m, cfg.Auth.JWTSecret)
	})

	log.Info("Moderation service starting",
		logger.Int("port", cfg.Service.Port),
		logger.Duration("activity_threshold", cfg.Review.ActivityThreshold),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Moderation service exited cleanly")
	return 0
}
