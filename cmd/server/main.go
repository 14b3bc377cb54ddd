// @title Price Comparator API
// @version 1.0
// @description Price comparison over daily store snapshots: basket optimisation, value ranking, discounts and price alerts.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/pricecomparator/price-service/config"
	_ "github.com/pricecomparator/price-service/docs"
	"github.com/pricecomparator/price-service/internal/alerts"
	"github.com/pricecomparator/price-service/internal/catalog"
	"github.com/pricecomparator/price-service/internal/database"
	"github.com/pricecomparator/price-service/internal/handlers"
	"github.com/pricecomparator/price-service/internal/middleware"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/snapshots"
	"github.com/pricecomparator/price-service/internal/storage"
	"github.com/pricecomparator/price-service/internal/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load(os.Getenv("PRICE_COMPARATOR_CONFIG"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)
	log.Logger = *logger

	logger.Info().Str("version", version).Msg("Starting price comparator")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Telemetry.Environment,
		ExportInterval: cfg.Telemetry.ExportInterval,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	snapshotStore, err := storage.NewLocalStorage(cfg.Snapshots.Dir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Snapshots.Dir).Msg("Snapshot directory unavailable")
	}
	loader := snapshots.NewLoader(snapshotStore, snapshots.LoaderConfig{
		CacheEnabled:    cfg.Snapshots.CacheEnabled,
		LoadConcurrency: cfg.Snapshots.LoadConcurrency,
	}, snapshots.NewMetricsRecorder())

	alertStore, err := alerts.Open(ctx, alerts.Options{
		Backend:    alerts.Backend(cfg.Alerts.Backend),
		SQLitePath: cfg.Alerts.SQLitePath,
		Database: database.Config{
			URL:             cfg.Alerts.DatabaseURL,
			MaxConns:        cfg.Alerts.MaxConnections,
			MinConns:        cfg.Alerts.MinConnections,
			MaxConnLifetime: cfg.Alerts.MaxConnLifetime,
			MaxConnIdleTime: cfg.Alerts.MaxConnIdleTime,
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Alerts.Backend).Msg("Failed to open alert store")
	}
	defer database.Close()
	defer alertStore.Close()

	logger.Info().
		Str("snapshots", snapshotStore.GetBasePath()).
		Str("alerts", cfg.Alerts.Backend).
		Msg("Stores ready")

	handlers.Init(catalog.NewService(loader,
		catalog.WithAlertStore(alertStore),
		catalog.WithOptimizerConfig(&optimizer.Config{MaxBasketItems: cfg.Optimizer.MaxBasketItems}),
	))

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(ctx, router, cfg.RateLimit, logger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	handlers.RegisterRoutes(router)

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "price-comparator").Logger()
	return &logger
}

func setupMiddleware(ctx context.Context, router *gin.Engine, cfg config.RateLimitConfig, logger *zerolog.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	if !cfg.Enabled {
		return
	}
	limiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		BurstSize:         cfg.Burst,
		IdleTimeout:       cfg.IdleTimeout,
	})
	go limiter.RunJanitor(ctx, cfg.IdleTimeout)
	router.Use(middleware.RateLimitMiddleware(limiter))
}
