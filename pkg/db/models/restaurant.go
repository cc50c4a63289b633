package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant holds the restaurant attributes the shipping flow depends on.
// The legacy pricing columns predate the provider system and are only used
// when no provider can serve a request.
type Restaurant struct {
	ID                      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                    string    `gorm:"column:name;not null"`
	Address                 string    `gorm:"column:address"`
	Lat                     float64   `gorm:"column:lat;not null"`
	Lng                     float64   `gorm:"column:lng;not null"`
	DefaultDeliveryPriceKRW *int64    `gorm:"column:default_delivery_price_krw"`
	FreeDeliveryOverKRW     *int64    `gorm:"column:free_delivery_over_krw"`
	CreatedAt               time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
