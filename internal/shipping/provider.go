package shipping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// Request is one delivery-quote request against a restaurant.
type Request struct {
	RestaurantID  uuid.UUID
	CustomerID    *uuid.UUID
	Destination   types.Coordinates
	Address       string
	OrderTotalKRW int64
	ScheduledAt   time.Time
}

// ScheduledOrNow returns the requested delivery time, defaulting to now.
func (r Request) ScheduledOrNow(now time.Time) time.Time {
	if r.ScheduledAt.IsZero() {
		return now
	}
	return r.ScheduledAt
}

// PricePendingManual is the sentinel price of a quote whose real price a
// restaurant still has to set.
const PricePendingManual int64 = -1

// Quote is one provider's delivery offer for a request.
type Quote struct {
	QuoteID                        string             `json:"quoteId"`
	ProviderID                     string             `json:"providerId"`
	ProviderName                   string             `json:"providerName"`
	ProviderType                   enums.ProviderType `json:"providerType"`
	PriceKRW                       int64              `json:"price"`
	Currency                       enums.Currency     `json:"currency"`
	EtaMinutes                     int                `json:"estimatedMinutes"`
	ValidUntil                     time.Time          `json:"validUntil"`
	Features                       []string           `json:"features,omitempty"`
	Metadata                       map[string]any     `json:"metadata,omitempty"`
	TrackingURL                    *string            `json:"trackingUrl,omitempty"`
	RequiresRestaurantConfirmation bool               `json:"requiresRestaurantConfirmation,omitempty"`
}

// Booking is the accepted quote bound to one order.
type Booking struct {
	BookingID         string              `json:"bookingId"`
	QuoteID           string              `json:"quoteId"`
	OrderID           uuid.UUID           `json:"orderId"`
	ProviderID        string              `json:"providerId"`
	Status            enums.BookingStatus `json:"status"`
	PriceKRW          int64               `json:"price"`
	TrackingURL       *string             `json:"trackingUrl,omitempty"`
	ExternalBookingID *string             `json:"externalBookingId,omitempty"`
}

// Provider is the contract every delivery provider satisfies. GetQuotes may
// return an empty slice but must never panic past its own boundary; internal
// failures surface as a *ProviderError.
type Provider interface {
	ProviderID() string
	CanDeliver(ctx context.Context, req Request) (bool, error)
	GetQuotes(ctx context.Context, req Request) ([]Quote, error)
}

// Booker is the optional booking capability some providers expose.
type Booker interface {
	Book(ctx context.Context, quote Quote, req types.QuoteRequestSnapshot) (*Booking, error)
}

// ProviderError wraps any provider failure with the owning providerID and a
// message already scrubbed of credentials.
type ProviderError struct {
	ProviderID string
	Timeout    bool
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s", e.ProviderID, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewQuoteID builds a quote identifier whose prefix names the owning
// provider: {providerId}_{unixMillis}_{random}.
func NewQuoteID(providerID string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", providerID, now.UnixMilli(), random)
}

// QuoteProviderID extracts the provider prefix from a quote identifier.
func QuoteProviderID(quoteID string) string {
	if idx := strings.Index(quoteID, "_"); idx > 0 {
		return quoteID[:idx]
	}
	return quoteID
}
