package models

import (
	"time"

	"github.com/google/uuid"
)

// DistanceTier prices a half-open distance band [MinKm, MaxKm) for a
// distance-based provider.
type DistanceTier struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderConfigID   uuid.UUID `gorm:"column:provider_config_id;type:uuid;not null;index"`
	TierID             string    `gorm:"column:tier_id;uniqueIndex;not null"`
	MinKm              float64   `gorm:"column:min_km;not null"`
	MaxKm              float64   `gorm:"column:max_km;not null"`
	PriceKRW           int64     `gorm:"column:price_krw;not null"`
	EtaMinutes         int       `gorm:"column:eta_minutes;not null"`
	FreeAfterAmountKRW *int64    `gorm:"column:free_after_amount_krw"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
