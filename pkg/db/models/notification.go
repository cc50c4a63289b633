package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to restaurants.
type Notification struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID              `gorm:"column:restaurant_id;type:uuid;not null;index"`
	OrderID      *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	Type         enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	Title        string                 `gorm:"type:text;not null"`
	Message      string                 `gorm:"type:text;not null"`
	Link         *string                `gorm:"type:text"`
	ReadAt       *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt    time.Time              `gorm:"column:created_at;type:timestamptz;default:now()"`
}
