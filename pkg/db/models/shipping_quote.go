package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// ShippingQuote is a persisted provider quote. PriceKRW of -1 means the
// price has not been decided yet and a restaurant must set it manually.
type ShippingQuote struct {
	ID              uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID         string                      `gorm:"column:quote_id;uniqueIndex;not null"`
	ProviderID      string                      `gorm:"column:provider_id;not null;index"`
	ProviderName    string                      `gorm:"column:provider_name;not null"`
	ProviderType    enums.ProviderType          `gorm:"column:provider_type;type:text;not null"`
	RestaurantID    uuid.UUID                   `gorm:"column:restaurant_id;type:uuid;not null;index"`
	CustomerID      *uuid.UUID                  `gorm:"column:customer_id;type:uuid;index"`
	PriceKRW        int64                       `gorm:"column:price_krw;not null"`
	Currency        enums.Currency              `gorm:"column:currency;type:text;not null;default:'KRW'"`
	EtaMinutes      int                         `gorm:"column:eta_minutes;not null"`
	ValidUntil      time.Time                   `gorm:"column:valid_until;not null;index"`
	Features        []string                    `gorm:"column:features;type:jsonb;serializer:json"`
	TrackingURL     *string                     `gorm:"column:tracking_url"`
	Metadata        types.JSONMap               `gorm:"column:metadata;type:jsonb;serializer:json"`
	RequestSnapshot *types.QuoteRequestSnapshot `gorm:"column:request_snapshot;type:jsonb;serializer:json"`
	ExpiredAt       *time.Time                  `gorm:"column:expired_at"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
