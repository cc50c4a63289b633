package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mokja-app/mokja-backend/api/routes"
	"github.com/mokja-app/mokja-backend/internal/address"
	"github.com/mokja-app/mokja-backend/internal/auth"
	"github.com/mokja-app/mokja-backend/internal/notifications"
	"github.com/mokja-app/mokja-backend/internal/orders"
	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/internal/shipping/external"
	"github.com/mokja-app/mokja-backend/internal/users"
	"github.com/mokja-app/mokja-backend/pkg/auth/session"
	"github.com/mokja-app/mokja-backend/pkg/config"
	"github.com/mokja-app/mokja-backend/pkg/db"
	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/maps"
	"github.com/mokja-app/mokja-backend/pkg/metrics"
	"github.com/mokja-app/mokja-backend/pkg/migrate"
	"github.com/mokja-app/mokja-backend/pkg/outbox"
	"github.com/mokja-app/mokja-backend/pkg/redis"
)

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	mapsClient, err := maps.NewClient(cfg.Maps.APIKey, mapsOptions(cfg)...)
	if err != nil {
		logg.Error(context.Background(), "failed to create maps client", err)
		os.Exit(1)
	}
	addressService := address.NewService(mapsClient)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

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
		Repo:            shippingRepo,
		Registry:        providerRegistry,
		Tx:              dbClient,
		Outbox:          outboxService,
		Logger:          logg,
		ProviderMetrics: metrics.NewProviderMetrics(prometheus.DefaultRegisterer),
		CallTimeout:     cfg.Shipping.ProviderCallTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		Tx:       dbClient,
		Outbox:   outboxService,
		Shipping: shippingService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			addressService,
			ordersService,
			shippingService,
			notificationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func mapsOptions(cfg *config.Config) []maps.Option {
	var opts []maps.Option
	if cfg.Maps.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.Maps.BaseURL))
	}
	return opts
}
