package external

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

const (
	baeminDefaultBaseURL = "https://partner-api.baemin.dev/v1"
	baeminQuoteTTL       = 10 * time.Minute

	// Rough South Korea bounding box used for serviceability.
	koreaMinLat = 33.0
	koreaMaxLat = 38.0
	koreaMinLng = 124.0
	koreaMaxLng = 132.0
)

// BaeminAdapter talks to the Baemin partner delivery API.
type BaeminAdapter struct {
	*Adapter
	baseURL string

	now func() time.Time
}

// NewBaeminAdapter builds the adapter from a stored provider config.
func NewBaeminAdapter(config *models.ShippingProvider, opts ...AdapterOption) *BaeminAdapter {
	base := NewAdapter(config, opts...)
	return &BaeminAdapter{
		Adapter: base,
		baseURL: base.Setting("base_url", baeminDefaultBaseURL),
		now:     time.Now,
	}
}

// NewBaeminFactory returns a registry factory for Baemin configs.
func NewBaeminFactory(opts ...AdapterOption) shipping.Factory {
	return func(config *models.ShippingProvider) (shipping.Provider, error) {
		return NewBaeminAdapter(config, opts...), nil
	}
}

// CanDeliver approximates Baemin coverage with a Korea bounding box.
func (b *BaeminAdapter) CanDeliver(ctx context.Context, req shipping.Request) (bool, error) {
	lat, lng := req.Destination.Lat, req.Destination.Lng
	return lat >= koreaMinLat && lat <= koreaMaxLat &&
		lng >= koreaMinLng && lng <= koreaMaxLng, nil
}

type baeminQuoteRequest struct {
	Dropoff     types.Coordinates `json:"dropoff"`
	Address     string            `json:"address,omitempty"`
	OrderAmount decimal.Decimal   `json:"orderAmount"`
	ScheduledAt *time.Time        `json:"scheduledAt,omitempty"`
}

type baeminQuoteResponse struct {
	QuoteRef         string          `json:"quoteRef"`
	DeliveryFee      decimal.Decimal `json:"deliveryFee"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	VehicleType      string          `json:"vehicleType"`
	ExpressAvailable bool            `json:"expressAvailable"`
}

// GetQuotes asks the partner API for one delivery offer. Out-of-coverage
// destinations produce an empty result, not an error.
func (b *BaeminAdapter) GetQuotes(ctx context.Context, req shipping.Request) ([]shipping.Quote, error) {
	covered, err := b.CanDeliver(ctx, req)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, nil
	}

	apiKey, err := b.Credential("api_key")
	if err != nil {
		return nil, err
	}

	payload := baeminQuoteRequest{
		Dropoff:     req.Destination,
		Address:     req.Address,
		OrderAmount: decimal.NewFromInt(req.OrderTotalKRW),
	}
	if !req.ScheduledAt.IsZero() {
		scheduled := req.ScheduledAt
		payload.ScheduledAt = &scheduled
	}

	var resp baeminQuoteResponse
	url := fmt.Sprintf("%s/quotes", b.baseURL)
	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	if err := b.DoJSON(ctx, http.MethodPost, url, headers, payload, &resp); err != nil {
		return nil, err
	}

	now := b.now()
	features := []string{"fast_delivery", "real_time_tracking"}
	if resp.ExpressAvailable {
		features = append(features, "express_available")
	}

	return []shipping.Quote{{
		QuoteID:      shipping.NewQuoteID(b.ProviderID(), now),
		ProviderID:   b.ProviderID(),
		ProviderName: b.Name(),
		ProviderType: enums.ProviderTypeExternal,
		PriceKRW:     resp.DeliveryFee.IntPart(),
		Currency:     enums.CurrencyKRW,
		EtaMinutes:   resp.EstimatedMinutes,
		ValidUntil:   now.Add(baeminQuoteTTL),
		Features:     features,
		Metadata: map[string]any{
			"externalQuoteRef": resp.QuoteRef,
			"vehicleType":      resp.VehicleType,
			"expressAvailable": resp.ExpressAvailable,
		},
	}}, nil
}

type baeminBookingRequest struct {
	QuoteRef string            `json:"quoteRef"`
	Dropoff  types.Coordinates `json:"dropoff"`
	Address  string            `json:"address,omitempty"`
}

type baeminBookingResponse struct {
	BookingID   string `json:"bookingId"`
	Status      string `json:"status"`
	TrackingURL string `json:"trackingUrl"`
}

// Book commits a previously quoted delivery with the partner.
func (b *BaeminAdapter) Book(ctx context.Context, quote shipping.Quote, snapshot types.QuoteRequestSnapshot) (*shipping.Booking, error) {
	apiKey, err := b.Credential("api_key")
	if err != nil {
		return nil, err
	}

	quoteRef, _ := quote.Metadata["externalQuoteRef"].(string)
	if quoteRef == "" {
		return nil, &shipping.ProviderError{
			ProviderID: b.ProviderID(),
			Message:    "quote is missing the partner quote reference",
		}
	}

	payload := baeminBookingRequest{
		QuoteRef: quoteRef,
		Dropoff:  snapshot.Destination,
		Address:  snapshot.Address,
	}

	var resp baeminBookingResponse
	url := fmt.Sprintf("%s/bookings", b.baseURL)
	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	if err := b.DoJSON(ctx, http.MethodPost, url, headers, payload, &resp); err != nil {
		return nil, err
	}

	status := enums.BookingStatusConfirmed
	if resp.Status == "pending" {
		status = enums.BookingStatusPending
	}

	booking := &shipping.Booking{
		QuoteID:    quote.QuoteID,
		ProviderID: b.ProviderID(),
		Status:     status,
		PriceKRW:   quote.PriceKRW,
	}
	if resp.TrackingURL != "" {
		booking.TrackingURL = &resp.TrackingURL
	}
	if resp.BookingID != "" {
		booking.ExternalBookingID = &resp.BookingID
	}
	return booking, nil
}
