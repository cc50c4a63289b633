package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// ShippingBooking records the quote an order committed to. The unique index
// on order_id is what guarantees at most one booking per order under
// concurrent selection.
type ShippingBooking struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	QuoteID           string              `gorm:"column:quote_id;not null"`
	ProviderID        string              `gorm:"column:provider_id;not null;index"`
	CustomerID        uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID      uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Status            enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PriceKRW          int64               `gorm:"column:price_krw;not null"`
	Currency          enums.Currency      `gorm:"column:currency;type:text;not null;default:'KRW'"`
	ExternalBookingID *string             `gorm:"column:external_booking_id"`
	TrackingURL       *string             `gorm:"column:tracking_url"`
	Metadata          types.JSONMap       `gorm:"column:metadata;type:jsonb;serializer:json"`
	ConfirmedAt       *time.Time          `gorm:"column:confirmed_at"`
	CancelledAt       *time.Time          `gorm:"column:cancelled_at"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
