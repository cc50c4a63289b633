package shipping

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/api/middleware"
	"github.com/mokja-app/mokja-backend/api/responses"
	"github.com/mokja-app/mokja-backend/api/validators"
	internalorders "github.com/mokja-app/mokja-backend/internal/orders"
	internalshipping "github.com/mokja-app/mokja-backend/internal/shipping"
	pkgerrors "github.com/mokja-app/mokja-backend/pkg/errors"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

type quoteRequestBody struct {
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Address     string   `json:"address,omitempty"`
	ScheduledAt string   `json:"scheduled_at,omitempty"`
}

type directQuoteRequestBody struct {
	RestaurantID string   `json:"restaurant_id" validate:"required,uuid4"`
	Lat          *float64 `json:"lat" validate:"required"`
	Lng          *float64 `json:"lng" validate:"required"`
	Address      string   `json:"address,omitempty"`
	OrderTotal   int64    `json:"order_total,omitempty" validate:"gte=0"`
	ScheduledAt  string   `json:"scheduled_at,omitempty"`
}

type selectQuoteBody struct {
	QuoteID string `json:"quote_id" validate:"required"`
}

type manualPriceBody struct {
	Price int64 `json:"price" validate:"gte=0"`
}

type customerResponseBody struct {
	Action string `json:"action" validate:"required"`
}

type toggleProviderBody struct {
	RestaurantID string `json:"restaurant_id" validate:"required,uuid4"`
	ProviderID   string `json:"provider_id" validate:"required"`
	Enabled      bool   `json:"enabled"`
}

// Quotes fans a quote request out to the restaurant's enabled providers.
// The destination defaults to the order's delivery address; the body may
// override it for a what-if quote.
func Quotes(orders internalorders.Service, svc internalshipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.GetOrder(r.Context(), orderID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := internalshipping.Request{
			RestaurantID:  order.RestaurantID,
			CustomerID:    &customerID,
			OrderTotalKRW: order.TotalKRW,
		}
		if order.DeliveryAddress != nil {
			req.Destination = order.DeliveryAddress.Coordinates
			req.Address = order.DeliveryAddress.Street
		}
		if body.Lat != nil && body.Lng != nil {
			req.Destination = types.Coordinates{Lat: *body.Lat, Lng: *body.Lng}
		}
		if addr := strings.TrimSpace(body.Address); addr != "" {
			req.Address = addr
		}
		if raw := strings.TrimSpace(body.ScheduledAt); raw != "" {
			scheduledAt, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scheduled_at"))
				return
			}
			req.ScheduledAt = scheduledAt
		}
		if req.Destination.Lat == 0 && req.Destination.Lng == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "delivery destination is required"))
			return
		}

		result, err := svc.GetQuotes(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DirectQuotes prices a delivery for a restaurant and destination with no
// order attached, so a customer can see delivery prices before committing
// to anything. The caller may be anonymous; a signed-in customer's quotes
// are scoped to them for later selection.
func DirectQuotes(svc internalshipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		var body directQuoteRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := uuid.Parse(body.RestaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id"))
			return
		}

		req := internalshipping.Request{
			RestaurantID:  restaurantID,
			Destination:   types.Coordinates{Lat: *body.Lat, Lng: *body.Lng},
			Address:       strings.TrimSpace(body.Address),
			OrderTotalKRW: body.OrderTotal,
		}
		if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
			if customerID, err := uuid.Parse(userID); err == nil {
				req.CustomerID = &customerID
			}
		}
		if raw := strings.TrimSpace(body.ScheduledAt); raw != "" {
			scheduledAt, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scheduled_at"))
				return
			}
			req.ScheduledAt = scheduledAt
		}

		result, err := svc.GetQuotes(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SelectQuote commits a quote to the order and books it.
func SelectQuote(orders internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body selectQuoteBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := orders.ApplyShippingQuote(r.Context(), internalorders.ApplyShippingQuoteInput{
			OrderID:    orderID,
			QuoteID:    strings.TrimSpace(body.QuoteID),
			CustomerID: customerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// CustomerResponse records the customer's accept/reject of a manual price.
func CustomerResponse(svc internalshipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body customerResponseBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := parseResponseAction(body.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CustomerResponse(r.Context(), internalshipping.CustomerResponseInput{
			OrderID:    orderID,
			Action:     action,
			CustomerID: customerID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// SetManualPrice lets restaurant staff price a pending manual quote.
func SetManualPrice(svc internalshipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		restaurantID, err := restaurantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body manualPriceBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Price < 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}

		if err := svc.SetManualPrice(r.Context(), internalshipping.SetManualPriceInput{
			OrderID:      orderID,
			PriceKRW:     body.Price,
			RestaurantID: restaurantID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ListProviders returns the restaurant's provider configs without credentials.
func ListProviders(svc internalshipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		restaurantID, err := restaurantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		providers, err := svc.ListProviders(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"providers": providers})
	}
}

// AdminListProviders lets platform staff inspect any restaurant's providers.
func AdminListProviders(svc internalshipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("restaurantId"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "restaurantId is required"))
			return
		}
		restaurantID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurantId"))
			return
		}

		providers, err := svc.ListProviders(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"providers": providers})
	}
}

// AdminToggleProvider flips a provider's enabled flag.
func AdminToggleProvider(svc internalshipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		var body toggleProviderBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := uuid.Parse(strings.TrimSpace(body.RestaurantID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id"))
			return
		}

		if err := svc.SetProviderEnabled(r.Context(), internalshipping.ToggleProviderInput{
			RestaurantID: restaurantID,
			ProviderID:   strings.TrimSpace(body.ProviderID),
			Enabled:      body.Enabled,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

func parseResponseAction(raw string) (internalshipping.CustomerResponseAction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accept":
		return internalshipping.CustomerResponseAccept, nil
	case "reject":
		return internalshipping.CustomerResponseReject, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "action must be accept or reject")
	}
}

func customerFromContext(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return parsed, nil
}

func restaurantFromContext(r *http.Request) (uuid.UUID, error) {
	restaurantID := middleware.RestaurantIDFromContext(r.Context())
	if restaurantID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant context missing")
	}
	parsed, err := uuid.Parse(restaurantID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id")
	}
	return parsed, nil
}

func orderIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return parsed, nil
}
