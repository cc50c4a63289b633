package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/types"
)

// DeliveryOrigin is a dispatch point a distance-based provider can ship from.
// CurrentLoad is only ever changed through atomic SQL increments; callers
// must not read-modify-write it.
type DeliveryOrigin struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderConfigID uuid.UUID          `gorm:"column:provider_config_id;type:uuid;not null;index"`
	OriginID         string             `gorm:"column:origin_id;uniqueIndex;not null"`
	Name             string             `gorm:"column:name;not null"`
	Address          string             `gorm:"column:address"`
	Lat              float64            `gorm:"column:lat;not null"`
	Lng              float64            `gorm:"column:lng;not null"`
	IsActive         bool               `gorm:"column:is_active;not null;default:true"`
	MaxCapacity      int                `gorm:"column:max_capacity;not null"`
	CurrentLoad      int                `gorm:"column:current_load;not null;default:0"`
	OperatingHours   *types.WeeklyHours `gorm:"column:operating_hours;type:jsonb;serializer:json"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
