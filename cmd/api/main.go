package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jaylife/storefront-api/api/controllers"
	"github.com/jaylife/storefront-api/api/routes"
	"github.com/jaylife/storefront-api/internal/cart"
	"github.com/jaylife/storefront-api/internal/events"
	"github.com/jaylife/storefront-api/pkg/config"
	"github.com/jaylife/storefront-api/pkg/db"
	"github.com/jaylife/storefront-api/pkg/logger"
	"github.com/jaylife/storefront-api/pkg/metrics"
	"github.com/jaylife/storefront-api/pkg/migrate"
	"github.com/jaylife/storefront-api/pkg/redis"
	"github.com/jaylife/storefront-api/pkg/storefront"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	storefrontClient, err := storefront.NewClient(cfg.Storefront, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront client", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{
		"storefront": storefrontClient,
	}

	var dbClient *db.Client
	if cfg.DB.Configured() {
		dbClient, err = db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		readiness["database"] = dbClient

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		readiness["redis"] = redisClient
	}

	var publisher *events.Publisher
	if cfg.PubSub.Configured() {
		publisher, err = events.NewPublisher(context.Background(), cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create cart events publisher", err)
			os.Exit(1)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logg.Error(context.Background(), "error closing cart events publisher", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartOpMetrics(registry)

	params := cart.ServiceParams{
		Backend: storefrontClient,
		Metrics: cartMetrics,
		Logger:  logg,
	}
	if publisher != nil {
		params.Events = publisher
	}
	cartService, err := cart.NewService(params)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, cartService, readiness, registry),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
