// Package main is the entry point for the ledger service.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/paylane/ledger-service/internal/config"
	"github.com/paylane/ledger-service/internal/logging"
	"github.com/paylane/ledger-service/internal/metrics"
	"github.com/paylane/ledger-service/internal/repositories"
	"github.com/paylane/ledger-service/internal/repositories/cache"
	"github.com/paylane/ledger-service/internal/routes"
)

func main() {
	config.LoadEnv()

	logger := logging.New("ledger-service")
	defer logger.Sync()

	db, err := repositories.InitDB()
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	rdb := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := cache.HealthCheck(ctx, rdb); err != nil {
		cancel()
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	cancel()

	collector := metrics.NewCollector()

	app := fiber.New(fiber.Config{
		AppName:      "ledger-service",
		ReadTimeout:  config.GetDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: config.GetDurationEnv("HTTP_WRITE_TIMEOUT", 30*time.Second),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Idempotency-Key, X-User-Id",
		AllowMethods: "GET,POST,HEAD",
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/transactions", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("RATE_LIMIT_MAX", 60),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id := c.Get("X-User-Id"); id != "" {
				return id
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	transferService := routes.SetupRoutes(app, db, rdb, logger, collector)

	// Flag transfers interrupted by a previous crash before serving traffic.
	recoverCtx, recoverCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if n, err := transferService.RecoverStalled(recoverCtx); err != nil {
		logger.Error("startup recovery sweep failed", zap.Error(err))
	} else if n > 0 {
		logger.Warn("flagged stalled transfers for reconciliation", zap.Int("count", n))
	}
	recoverCancel()

	addr := ":" + config.GetEnv("PORT", "8003")
	logger.Info("starting ledger service", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
