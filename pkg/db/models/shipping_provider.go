package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// ShippingProvider stores one restaurant's configuration for a provider.
// Credentials are only ever exposed through the typed accessor on the
// external adapter and are stripped from API responses.
type ShippingProvider struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:idx_provider_restaurant"`
	ProviderID   string             `gorm:"column:provider_id;not null;uniqueIndex:idx_provider_restaurant"`
	Name         string             `gorm:"column:name;not null"`
	Type         enums.ProviderType `gorm:"column:type;type:text;not null"`
	Enabled      bool               `gorm:"column:enabled;not null;default:false"`
	Priority     int                `gorm:"column:priority;not null;default:100"`
	Credentials  types.JSONMap      `gorm:"column:credentials;type:jsonb;serializer:json"`
	Settings     types.JSONMap      `gorm:"column:settings;type:jsonb;serializer:json"`
	Origins      []DeliveryOrigin   `gorm:"foreignKey:ProviderConfigID;constraint:OnDelete:CASCADE"`
	Tiers        []DistanceTier     `gorm:"foreignKey:ProviderConfigID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
