package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/pagination"
)

// Repository persists orders and the restaurant rows the order flow reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error)
	SetLegacyShippingPrice(ctx context.Context, orderID uuid.UUID, priceKRW int64) error

	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}
