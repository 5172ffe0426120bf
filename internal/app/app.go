package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/salespulse/config"
	"github.com/guttosm/salespulse/internal/api"
	"github.com/guttosm/salespulse/internal/ingestion"
	"github.com/guttosm/salespulse/internal/logger"
	"github.com/guttosm/salespulse/internal/service"
	"github.com/guttosm/salespulse/internal/storage"
)

// Dependencies are the wired application components shared by the HTTP
// server and the CLI commands.
type Dependencies struct {
	Repo    storage.TransactionsRepository
	Service service.AggregateService
	Feed    *ingestion.FeedClient
	Seeder  *ingestion.Seeder

	// Close releases storage resources.
	Close func()
}

// BuildDependencies wires storage, service, feed client and seeder from cfg.
//
// Responsibilities:
//   - Selects the storage driver (postgres or memory).
//   - For postgres: connects, and applies migrations when MigrateOnStart is set.
//   - Builds the rate-limited feed client and the seeder.
func BuildDependencies(cfg config.Config) (*Dependencies, error) {
	var (
		repo    storage.TransactionsRepository
		closeFn = func() {}
	)

	switch cfg.StorageDriver {
	case config.DriverMemory:
		repo = storage.NewMemoryRepository()
		logger.L().Warn().Msg("using in-memory storage; data is lost on exit")
	case config.DriverPostgres, "":
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if cfg.Server.MigrateOnStart {
			if err := migrator(db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to migrate postgres: %w", err)
			}
		}
		repo = storage.NewTransactionsRepository(db)
		closeFn = func() { _ = db.Close() }
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	feed := ingestion.NewFeedClient(cfg.Feed.URL, ingestion.FeedOptions{
		Timeout:    cfg.Feed.Timeout,
		MaxRetries: cfg.Feed.MaxRetries,
		RatePerSec: cfg.Feed.RatePerSec,
	})

	return &Dependencies{
		Repo:    repo,
		Service: service.NewAggregateService(repo),
		Feed:    feed,
		Seeder:  ingestion.NewSeeder(feed, repo),
		Close:   closeFn,
	}, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds dependencies from config.AppConfig.
//   - Creates the HTTP handler layer and the router.
//   - Registers health and readiness probes.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	deps, err := BuildDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(deps.Service, deps.Seeder)

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		RateLimitPerMin: cfg.Server.RateLimitPerMin,
		RequestTimeout:  cfg.Server.RequestTimeout,
	})

	healthHandler := api.NewHealthHandler(deps.Repo.Ping)
	healthHandler.Register(router)

	return router, deps.Close, nil
}
