// Package routes defines the API routing configuration.
// It wires repositories, remote adapters and services together and
// registers all HTTP routes with their middleware.
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paylane/ledger-service/internal/config"
	"github.com/paylane/ledger-service/internal/handlers"
	"github.com/paylane/ledger-service/internal/metrics"
	"github.com/paylane/ledger-service/internal/middleware"
	"github.com/paylane/ledger-service/internal/repositories"
	"github.com/paylane/ledger-service/internal/repositories/cache"
	"github.com/paylane/ledger-service/internal/services/balance"
	"github.com/paylane/ledger-service/internal/services/notification"
	"github.com/paylane/ledger-service/internal/services/transfer"
)

// SetupRoutes configures all application routes and returns the transfer
// service so the caller can run the startup recovery sweep.
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, logger *zap.Logger, collector *metrics.Collector) transfer.Service {
	ledgerRepo := repositories.NewLedgerRepository(db)
	locker := cache.NewLocker(rdb)

	walletClient := balance.NewClient(balance.Config{
		BaseURL: config.GetEnv("WALLET_SERVICE_URL", "http://localhost:8002"),
		Timeout: config.GetDurationEnv("WALLET_TIMEOUT", 10*time.Second),
	})

	notifier := notification.NewService(
		config.GetEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8004"),
		config.GetDurationEnv("NOTIFICATION_TIMEOUT", 5*time.Second),
		logger,
	)

	transferService := transfer.NewService(
		ledgerRepo,
		walletClient,
		notifier,
		locker,
		transfer.Config{
			Currency:      config.GetEnv("LEDGER_CURRENCY", transfer.DefaultCurrency),
			StalledCutoff: config.GetDurationEnv("STALLED_CUTOFF", transfer.DefaultStalledCutoff),
		},
		logger,
		collector,
	)

	healthHandler := handlers.NewHealthHandler(db, rdb)
	txHandler := handlers.NewTransactionHandler(transferService, logger)

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	api := app.Group("/api", middleware.GatewayIdentity())
	api.Post("/transactions", txHandler.Submit)
	api.Get("/transactions/user/:userID", txHandler.History)
	api.Get("/transactions/:id", txHandler.Get)
	api.Post("/transactions/:id/reverse", txHandler.Reverse)

	return transferService
}
