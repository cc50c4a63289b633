package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	pkgerrors "github.com/mokja-app/mokja-backend/pkg/errors"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/outbox"
	"github.com/mokja-app/mokja-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service covers the customer-facing order lifecycle up to the point where
// the shipping engine takes over.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ApplyShippingQuote(ctx context.Context, input ApplyShippingQuoteInput) (*shipping.Booking, error)
	ApplyLegacyShippingPrice(ctx context.Context, orderID, customerID uuid.UUID) (int64, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	shipping shipping.Service
	logg     *logger.Logger
}

// ServiceParams collects the order service dependencies.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Outbox   outboxPublisher
	Shipping shipping.Service
	Logger   *logger.Logger
}

// NewService validates dependencies and builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("orders service requires a repository")
	}
	if params.Tx == nil {
		return nil, errors.New("orders service requires a transaction runner")
	}
	if params.Shipping == nil {
		return nil, errors.New("orders service requires the shipping service")
	}
	if params.Logger == nil {
		return nil, errors.New("orders service requires a logger")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		outbox:   params.Outbox,
		shipping: params.Shipping,
		logg:     params.Logger,
	}, nil
}

// PlaceOrder creates the order in pending shipping state. Quoting and
// booking happen afterwards through the shipping engine.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.TotalKRW <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}

	if _, err := s.repo.FindRestaurantByID(ctx, input.RestaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, err
	}

	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      input.CustomerID,
		RestaurantID:    input.RestaurantID,
		TotalKRW:        input.TotalKRW,
		Currency:        enums.CurrencyKRW,
		ShippingStatus:  enums.OrderShippingStatusPending,
		DeliveryAddress: input.DeliveryAddress,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: map[string]any{
				"orderId":      order.ID,
				"customerId":   order.CustomerID,
				"restaurantId": order.RestaurantID,
				"total":        order.TotalKRW,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	if order.CustomerID != customerID {
		// Another customer's order is invisible, not forbidden.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID, params)
}

// ApplyShippingQuote verifies the order belongs to the caller and hands the
// quote to the shipping engine, which owns booking and status transitions.
func (s *service) ApplyShippingQuote(ctx context.Context, input ApplyShippingQuoteInput) (*shipping.Booking, error) {
	if _, err := s.GetOrder(ctx, input.OrderID, input.CustomerID); err != nil {
		return nil, err
	}

	return s.shipping.SelectQuote(ctx, shipping.SelectQuoteInput{
		QuoteID:    input.QuoteID,
		OrderID:    input.OrderID,
		CustomerID: input.CustomerID,
	})
}

// ApplyLegacyShippingPrice falls back to the restaurant's flat delivery
// pricing for restaurants that never configured a provider. Orders over the
// free-delivery threshold ship for free.
func (s *service) ApplyLegacyShippingPrice(ctx context.Context, orderID, customerID uuid.UUID) (int64, error) {
	order, err := s.GetOrder(ctx, orderID, customerID)
	if err != nil {
		return 0, err
	}

	restaurant, err := s.repo.FindRestaurantByID(ctx, order.RestaurantID)
	if err != nil {
		return 0, err
	}
	if restaurant.DefaultDeliveryPriceKRW == nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnavailable, "delivery_not_available")
	}

	price := *restaurant.DefaultDeliveryPriceKRW
	if restaurant.FreeDeliveryOverKRW != nil && order.TotalKRW >= *restaurant.FreeDeliveryOverKRW {
		price = 0
	}

	if err := s.repo.SetLegacyShippingPrice(ctx, orderID, price); err != nil {
		return 0, err
	}
	s.logg.Info(ctx, fmt.Sprintf("applied legacy shipping price %d to order %s", price, orderID))
	return price, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.outbox == nil {
		return nil
	}
	return s.outbox.Emit(ctx, tx, event)
}
