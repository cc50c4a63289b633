package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// Order is the slice of the order record the shipping flow reads and writes.
// ShippingPriceKRW stays nil while a manual quote is awaiting its price.
type Order struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID       uuid.UUID                 `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID     uuid.UUID                 `gorm:"column:restaurant_id;type:uuid;not null;index"`
	TotalKRW         int64                     `gorm:"column:total_krw;not null"`
	Currency         enums.Currency            `gorm:"column:currency;type:text;not null;default:'KRW'"`
	ShippingStatus   enums.OrderShippingStatus `gorm:"column:shipping_status;type:text;not null;default:'pending'"`
	ShippingQuoteID  *string                   `gorm:"column:shipping_quote_id"`
	ShippingPriceKRW *int64                    `gorm:"column:shipping_price_krw"`
	DeliveryAddress  *types.DeliveryAddress    `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	PlacedAt         *time.Time                `gorm:"column:placed_at"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
