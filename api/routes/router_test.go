package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/internal/address"
	"github.com/mokja-app/mokja-backend/internal/auth"
	"github.com/mokja-app/mokja-backend/internal/notifications"
	internalorders "github.com/mokja-app/mokja-backend/internal/orders"
	internalshipping "github.com/mokja-app/mokja-backend/internal/shipping"
	pkgAuth "github.com/mokja-app/mokja-backend/pkg/auth"
	"github.com/mokja-app/mokja-backend/pkg/auth/session"
	"github.com/mokja-app/mokja-backend/pkg/config"
	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/pagination"
	"github.com/mokja-app/mokja-backend/pkg/redis"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAddressService struct{}

func (stubAddressService) Suggest(ctx context.Context, req address.SuggestRequest) ([]address.Suggestion, error) {
	return nil, nil
}

func (stubAddressService) Resolve(ctx context.Context, req address.ResolveRequest) (types.DeliveryAddress, error) {
	return types.DeliveryAddress{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) PlaceOrder(ctx context.Context, input internalorders.PlaceOrderInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New()}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, CustomerID: customerID}, nil
}

func (stubOrdersService) ListOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error) {
	return &internalorders.OrderList{}, nil
}

func (stubOrdersService) ApplyShippingQuote(ctx context.Context, input internalorders.ApplyShippingQuoteInput) (*internalshipping.Booking, error) {
	return &internalshipping.Booking{}, nil
}

func (stubOrdersService) ApplyLegacyShippingPrice(ctx context.Context, orderID, customerID uuid.UUID) (int64, error) {
	return 3000, nil
}

type stubShippingService struct{}

func (stubShippingService) GetQuotes(ctx context.Context, req internalshipping.Request) (*internalshipping.QuoteResult, error) {
	return &internalshipping.QuoteResult{}, nil
}

func (stubShippingService) SelectQuote(ctx context.Context, input internalshipping.SelectQuoteInput) (*internalshipping.Booking, error) {
	return &internalshipping.Booking{}, nil
}

func (stubShippingService) SetManualPrice(ctx context.Context, input internalshipping.SetManualPriceInput) error {
	return nil
}

func (stubShippingService) CustomerResponse(ctx context.Context, input internalshipping.CustomerResponseInput) error {
	return nil
}

func (stubShippingService) ListProviders(ctx context.Context, restaurantID uuid.UUID) ([]internalshipping.ProviderSummary, error) {
	return nil, nil
}

func (stubShippingService) SetProviderEnabled(ctx context.Context, input internalshipping.ToggleProviderInput) error {
	return nil
}

func (stubShippingService) ExpirePendingManualQuotes(ctx context.Context, batchSize int) (internalshipping.SweepStats, error) {
	return internalshipping.SweepStats{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, restaurantID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "mokja",
			ExpirationMinutes: 30,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionManager{},
		stubAuthService{},
		stubRegisterService{},
		stubAddressService{},
		stubOrdersService{},
		stubShippingService{},
		stubNotificationsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole, restaurantID *uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:       uuid.New(),
		RestaurantID: restaurantID,
		Role:         role,
		JTI:          session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupAcceptsCustomerToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRestaurantGroupRequiresRestaurantScope(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/restaurant/shipping/providers", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without restaurant scope got %d", resp.Code)
	}

	restaurantID := uuid.New()
	staff := httptest.NewRequest(http.MethodGet, "/api/v1/restaurant/shipping/providers", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleRestaurant, &restaurantID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for restaurant staff got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderRoutesWired(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 listing orders got %d", resp.Code)
	}

	orderID := uuid.New()
	detail := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
	detail.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, detail)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for order detail got %d", resp.Code)
	}
}

func TestPublicQuoteRouteServesAnonymous(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"restaurant_id": "` + uuid.NewString() + `", "lat": 37.5, "lng": 127.0}`
	req := httptest.NewRequest(http.MethodPost, "/api/public/shipping/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPublicPingBypassesAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
