package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/enums"
)

// OrderPlacedEvent signals a new customer order before any shipping decision.
type OrderPlacedEvent struct {
	OrderID      uuid.UUID `json:"orderId"`
	CustomerID   uuid.UUID `json:"customerId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Total        int64     `json:"total"`
}

// QuoteCreatedEvent is emitted when a provider quote is persisted.
type QuoteCreatedEvent struct {
	QuoteID      string    `json:"quoteId"`
	ProviderID   string    `json:"providerId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Price        int64     `json:"price"`
	ValidUntil   time.Time `json:"validUntil"`
}

// QuoteExpiredEvent is emitted when the sweep flags a stale manual quote.
type QuoteExpiredEvent struct {
	QuoteID    string    `json:"quoteId"`
	ProviderID string    `json:"providerId"`
	ExpiredAt  time.Time `json:"expiredAt"`
}

// ManualPriceSetEvent is emitted when a restaurant prices a manual quote.
type ManualPriceSetEvent struct {
	OrderID uuid.UUID `json:"orderId"`
	QuoteID string    `json:"quoteId"`
	Price   int64     `json:"price"`
}

// BookingCreatedEvent is emitted when an order commits to a quote.
type BookingCreatedEvent struct {
	OrderID    uuid.UUID           `json:"orderId"`
	QuoteID    string              `json:"quoteId"`
	ProviderID string              `json:"providerId"`
	Status     enums.BookingStatus `json:"status"`
	Price      int64               `json:"price"`
}

// BookingStatusEvent covers booking confirmation and cancellation.
type BookingStatusEvent struct {
	OrderID uuid.UUID           `json:"orderId"`
	QuoteID string              `json:"quoteId"`
	Status  enums.BookingStatus `json:"status"`
	Reason  string              `json:"reason,omitempty"`
}

// CustomerResponseEvent carries the customer's accept/reject of a manual price.
type CustomerResponseEvent struct {
	OrderID uuid.UUID `json:"orderId"`
	QuoteID string    `json:"quoteId"`
	Action  string    `json:"action"`
}

// NotificationRequestedEvent tells downstream systems to alert a customer
// or restaurant about a shipping state change.
type NotificationRequestedEvent struct {
	OrderID      uuid.UUID `json:"orderId"`
	CustomerID   uuid.UUID `json:"customerId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Type         string    `json:"type"`
}
