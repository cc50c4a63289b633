package types

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Coordinates is a plain lat/lng pair used in quote requests and payloads.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DeliveryAddress captures where an order is picked up from or delivered to.
type DeliveryAddress struct {
	Street      string      `json:"street"`
	City        string      `json:"city"`
	PostalCode  string      `json:"postal_code,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// Value serializes the address to JSON.
func (d *DeliveryAddress) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan decodes JSONB into the address struct.
func (d *DeliveryAddress) Scan(value interface{}) error {
	if value == nil {
		*d = DeliveryAddress{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, d)
}

// HoursRange is one day's opening window in "HH:MM" clock values. A close
// earlier than the open means the window wraps past midnight.
type HoursRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklyHours maps weekday (0 = Sunday) to that day's opening window.
// A missing day means closed.
type WeeklyHours map[int]HoursRange

// Value serializes the hours table to JSON.
func (w *WeeklyHours) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

// Scan decodes JSONB into the hours table.
func (w *WeeklyHours) Scan(value interface{}) error {
	if value == nil {
		*w = WeeklyHours{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, w)
}

// QuoteRequestSnapshot preserves the request a quote was produced for, so a
// later booking can be validated against what the customer actually asked.
type QuoteRequestSnapshot struct {
	RestaurantID  uuid.UUID   `json:"restaurant_id"`
	CustomerID    *uuid.UUID  `json:"customer_id,omitempty"`
	Destination   Coordinates `json:"destination"`
	Address       string      `json:"address,omitempty"`
	OrderTotalKRW int64       `json:"order_total_krw"`
	ScheduledAt   time.Time   `json:"scheduled_at"`
}

// Value serializes the snapshot to JSON.
func (q *QuoteRequestSnapshot) Value() (driver.Value, error) {
	if q == nil {
		return nil, nil
	}
	return json.Marshal(q)
}

// Scan decodes JSONB into the snapshot struct.
func (q *QuoteRequestSnapshot) Scan(value interface{}) error {
	if value == nil {
		*q = QuoteRequestSnapshot{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, q)
}
