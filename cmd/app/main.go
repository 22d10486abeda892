package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/t0mb36/veloApp-sub001/internal/booking"
	"github.com/t0mb36/veloApp-sub001/internal/catalog"
	"github.com/t0mb36/veloApp-sub001/internal/checkout"
	"github.com/t0mb36/veloApp-sub001/internal/config"
	"github.com/t0mb36/veloApp-sub001/internal/db"
	"github.com/t0mb36/veloApp-sub001/internal/logger"
	"github.com/t0mb36/veloApp-sub001/internal/server"
	"github.com/t0mb36/veloApp-sub001/internal/session"
)

func main() {
	logger.Init()
	logger.Info("Starting velo booking service")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo := openCatalog(ctx, cfg)
	defer closeRepo()
	catalogService := catalog.NewService(repo, cfg.CatalogWindow, cfg.CoachTimezone)

	sessions := session.NewRegistry(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	checkoutService := checkout.New(checkout.NewClient(cfg.RedisAddr), cfg.CheckoutQueue, checkout.LogProcessor)
	defer checkoutService.Close()
	go checkoutService.Start(ctx)
	logger.Info("Checkout worker started", "queue", cfg.CheckoutQueue)

	bookingService := booking.NewService(catalogService, cfg.CoachTimezone)

	srv := server.New(cfg, sessions, catalogService, bookingService, checkoutService)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

// openCatalog connects the configured catalog backend. The returned func
// releases it.
func openCatalog(ctx context.Context, cfg *config.Config) (catalog.Repository, func()) {
	switch cfg.CatalogBackend {
	case config.BackendMongo:
		logger.Info("Connecting to mongo...")
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Fatalf("Failed to connect to mongo: %v", err)
		}
		logger.Info("Mongo connected", "database", cfg.MongoDatabase)
		return catalog.NewMongoRepository(database), func() {
			client.Disconnect(context.Background())
		}

	case config.BackendFixture:
		repo, err := catalog.LoadFixture(cfg.FixturePath, catalog.Today(time.Now(), cfg.CoachTimezone))
		if err != nil {
			logger.Fatalf("Failed to load catalog fixture: %v", err)
		}
		logger.Info("Catalog fixture loaded", "path", cfg.FixturePath)
		return repo, func() {}

	default:
		logger.Info("Connecting to database...")
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		logger.Info("Database connected")

		if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Migrations completed")
		return catalog.NewRepository(database), func() {
			database.Close()
		}
	}
}
