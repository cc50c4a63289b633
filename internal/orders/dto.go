package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// PlaceOrderInput captures a new order before any shipping decision exists.
type PlaceOrderInput struct {
	CustomerID      uuid.UUID
	RestaurantID    uuid.UUID
	TotalKRW        int64
	DeliveryAddress *types.DeliveryAddress
}

// ApplyShippingQuoteInput commits a previously issued quote to an order.
type ApplyShippingQuoteInput struct {
	OrderID    uuid.UUID
	QuoteID    string
	CustomerID uuid.UUID
}

// OrderSummary is the list-view projection of one order.
type OrderSummary struct {
	ID               uuid.UUID                 `json:"id"`
	RestaurantID     uuid.UUID                 `json:"restaurantId"`
	TotalKRW         int64                     `json:"total"`
	Currency         enums.Currency            `json:"currency"`
	ShippingStatus   enums.OrderShippingStatus `json:"shippingStatus"`
	ShippingQuoteID  *string                   `json:"shippingQuoteId,omitempty"`
	ShippingPriceKRW *int64                    `json:"shippingPrice,omitempty"`
	CreatedAt        time.Time                 `json:"createdAt"`
}

// OrderList wraps one page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func summarize(order models.Order) OrderSummary {
	return OrderSummary{
		ID:               order.ID,
		RestaurantID:     order.RestaurantID,
		TotalKRW:         order.TotalKRW,
		Currency:         order.Currency,
		ShippingStatus:   order.ShippingStatus,
		ShippingQuoteID:  order.ShippingQuoteID,
		ShippingPriceKRW: order.ShippingPriceKRW,
		CreatedAt:        order.CreatedAt,
	}
}
