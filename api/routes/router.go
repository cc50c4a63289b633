package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mokja-app/mokja-backend/api/controllers"
	ordercontrollers "github.com/mokja-app/mokja-backend/api/controllers/orders"
	shippingcontrollers "github.com/mokja-app/mokja-backend/api/controllers/shipping"
	"github.com/mokja-app/mokja-backend/api/middleware"
	"github.com/mokja-app/mokja-backend/internal/address"
	"github.com/mokja-app/mokja-backend/internal/auth"
	"github.com/mokja-app/mokja-backend/internal/notifications"
	"github.com/mokja-app/mokja-backend/internal/orders"
	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/pkg/auth/session"
	"github.com/mokja-app/mokja-backend/pkg/config"
	"github.com/mokja-app/mokja-backend/pkg/db"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	addressService address.Service,
	ordersService orders.Service,
	shippingService shipping.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
		// pre-order quoting, no account required
		r.Post("/shipping/quote", shippingcontrollers.DirectQuotes(shippingService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		// same order-less quoting as the public route, but quotes are
		// scoped to the signed-in customer for later selection
		r.Post("/shipping/quote", shippingcontrollers.DirectQuotes(shippingService, logg))

		r.Route("/address", func(r chi.Router) {
			r.Get("/suggest", controllers.AddressSuggest(addressService, logg))
			r.Post("/resolve", controllers.AddressResolve(addressService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Place(ordersService, logg))
			r.Get("/", ordercontrollers.List(ordersService, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
			r.Post("/{orderId}/shipping/legacy-price", ordercontrollers.LegacyShippingPrice(ordersService, logg))
			r.Post("/{orderId}/shipping/quotes", shippingcontrollers.Quotes(ordersService, shippingService, logg))
			r.Post("/{orderId}/shipping/select", shippingcontrollers.SelectQuote(ordersService, logg))
			r.Post("/{orderId}/shipping/response", shippingcontrollers.CustomerResponse(shippingService, logg))
		})

		r.Route("/restaurant", func(r chi.Router) {
			r.Use(middleware.RestaurantContext(logg))
			r.Post("/orders/{orderId}/shipping/price", shippingcontrollers.SetManualPrice(shippingService, logg))
			r.Get("/shipping/providers", shippingcontrollers.ListProviders(shippingService, logg))
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(notificationsService, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())
		r.Route("/shipping/providers", func(r chi.Router) {
			r.Get("/", shippingcontrollers.AdminListProviders(shippingService, logg))
			r.Post("/", shippingcontrollers.AdminToggleProvider(shippingService, logg))
		})
	})

	return r
}
