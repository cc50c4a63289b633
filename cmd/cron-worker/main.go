package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mokja-app/mokja-backend/internal/cron"
	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/internal/shipping/external"
	"github.com/mokja-app/mokja-backend/pkg/config"
	"github.com/mokja-app/mokja-backend/pkg/db"
	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/metrics"
	"github.com/mokja-app/mokja-backend/pkg/migrate"
	"github.com/mokja-app/mokja-backend/pkg/outbox"
	"github.com/mokja-app/mokja-backend/pkg/redis"
)

const lockKeyFormat = "mokja:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	outboxRepo := outbox.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outboxRepo, logg)

	shippingRepo := shipping.NewRepository(dbClient.DB())
	providerRegistry := shipping.NewRegistry(shippingRepo)
	providerRegistry.Register(enums.ProviderTypeDistance, func(pc *models.ShippingProvider) (shipping.Provider, error) {
		return shipping.NewDistanceProvider(pc, cfg.Shipping.DistanceQuoteTTL), nil
	})
	providerRegistry.Register(enums.ProviderTypeManual, func(pc *models.ShippingProvider) (shipping.Provider, error) {
		return shipping.NewManualProvider(pc, cfg.Shipping.ManualQuoteTTL), nil
	})
	providerRegistry.Register(enums.ProviderTypeExternal, external.NewBaeminFactory(
		external.WithTimeout(cfg.Shipping.ExternalHTTPTimeout),
		external.WithMaxRetries(cfg.Shipping.ExternalMaxRetries),
	))

	shippingService, err := shipping.NewService(shipping.ServiceParams{
		Repo:        shippingRepo,
		Registry:    providerRegistry,
		Tx:          dbClient,
		Outbox:      outboxService,
		Logger:      logg,
		CallTimeout: cfg.Shipping.ProviderCallTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	sweepJob, err := cron.NewManualQuoteTimeoutJob(cron.ManualQuoteTimeoutJobParams{
		Logger:    logg,
		Shipping:  shippingService,
		BatchSize: cfg.Shipping.SweepBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create manual quote timeout job", err)
		os.Exit(1)
	}

	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outboxRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(sweepJob, retentionJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Shipping.SweepInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
