package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/gisellucero1507/Proyecto-DInSAR/internal/api/http"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/config"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar/sources"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/observability"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/scheduler"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/store"
)

func main() {
	// Load configuration (also reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	metrics := observability.NewMetrics()

	// Shared HTTP client for remote CSV sources.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	displacement, err := sources.NewAll(cfg.DisplacementSources, httpClient)
	if err != nil {
		log.Error("invalid displacement source", "error", err)
		os.Exit(1)
	}
	var precipitation dinsar.Source
	if cfg.PrecipitationSource != "" {
		if precipitation, err = sources.New(cfg.PrecipitationSource, httpClient); err != nil {
			log.Error("invalid precipitation source", "error", err)
			os.Exit(1)
		}
	}

	// In-memory load history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core service: every view reloads the sources.
	service := dinsar.NewService(memStore, displacement, precipitation, log, metrics, dinsar.Options{
		TopEvents: cfg.TopEvents,
	})

	// Scheduler that periodically audits the sources.
	sched := scheduler.New(service, cfg.AuditInterval, log)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	sched.RunNow(startupCtx)
	cancelStartup()
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "dinsar-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "dinsar-dashboard",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		ChartWidth:  cfg.ChartWidth,
		ChartHeight: cfg.ChartHeight,
	})

	go func() {
		log.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("shutdown complete")
}
