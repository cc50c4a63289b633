package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// Repository persists provider configs, quotes, bookings and origin load.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindEnabledProviderConfigs(ctx context.Context, restaurantID uuid.UUID) ([]models.ShippingProvider, error)
	FindProviderConfigs(ctx context.Context, restaurantID uuid.UUID) ([]models.ShippingProvider, error)
	FindProviderConfigByProviderID(ctx context.Context, restaurantID uuid.UUID, providerID string) (*models.ShippingProvider, error)
	SetProviderEnabled(ctx context.Context, restaurantID uuid.UUID, providerID string, enabled bool) error

	CreateQuote(ctx context.Context, quote *models.ShippingQuote) error
	FindQuoteByQuoteID(ctx context.Context, quoteID string) (*models.ShippingQuote, error)
	SetQuotePrice(ctx context.Context, quoteID string, priceKRW int64, metadata map[string]any) error
	FindExpiredManualQuotes(ctx context.Context, cutoff time.Time, limit int) ([]models.ShippingQuote, error)
	MarkQuoteExpired(ctx context.Context, quoteID string, expiredAt time.Time) error

	UpsertBooking(ctx context.Context, booking *models.ShippingBooking) error
	FindBookingByOrderID(ctx context.Context, orderID uuid.UUID) (*models.ShippingBooking, error)
	FindBookingByQuoteID(ctx context.Context, quoteID string) (*models.ShippingBooking, error)
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status enums.BookingStatus, at time.Time) error
	SetBookingPrice(ctx context.Context, bookingID uuid.UUID, priceKRW int64) error

	UpdateOrderShipping(ctx context.Context, orderID uuid.UUID, update OrderShippingUpdate) error

	IncrementOriginLoad(ctx context.Context, originID string) (bool, error)
	DecrementOriginLoad(ctx context.Context, originID string) error

	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shipping repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindEnabledProviderConfigs(ctx context.Context, restaurantID uuid.UUID) ([]models.ShippingProvider, error) {
	var configs []models.ShippingProvider
	err := r.db.WithContext(ctx).
		Preload("Origins").
		Preload("Tiers").
		Where("restaurant_id = ? AND enabled = ?", restaurantID, true).
		Order("priority ASC").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repository) FindProviderConfigs(ctx context.Context, restaurantID uuid.UUID) ([]models.ShippingProvider, error) {
	var configs []models.ShippingProvider
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("priority ASC").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repository) FindProviderConfigByProviderID(ctx context.Context, restaurantID uuid.UUID, providerID string) (*models.ShippingProvider, error) {
	var config models.ShippingProvider
	err := r.db.WithContext(ctx).
		Preload("Origins").
		Preload("Tiers").
		Where("restaurant_id = ? AND provider_id = ?", restaurantID, providerID).
		First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *repository) SetProviderEnabled(ctx context.Context, restaurantID uuid.UUID, providerID string, enabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ShippingProvider{}).
		Where("restaurant_id = ? AND provider_id = ?", restaurantID, providerID).
		Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateQuote(ctx context.Context, quote *models.ShippingQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *repository) FindQuoteByQuoteID(ctx context.Context, quoteID string) (*models.ShippingQuote, error) {
	var quote models.ShippingQuote
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) SetQuotePrice(ctx context.Context, quoteID string, priceKRW int64, metadata map[string]any) error {
	updates := map[string]any{"price_krw": priceKRW}
	if metadata != nil {
		wrapped := types.JSONMap(metadata)
		updates["metadata"] = &wrapped
	}

	result := r.db.WithContext(ctx).
		Model(&models.ShippingQuote{}).
		Where("quote_id = ?", quoteID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindExpiredManualQuotes returns pending-price manual quotes past the
// cutoff that have not been flagged yet. The expired_at filter has to live
// in the WHERE clause: flagged quotes stay in the table for audit, and
// filtering them after the LIMIT would let them crowd out newer stale
// quotes once enough of them accumulate.
func (r *repository) FindExpiredManualQuotes(ctx context.Context, cutoff time.Time, limit int) ([]models.ShippingQuote, error) {
	var quotes []models.ShippingQuote
	err := r.db.WithContext(ctx).
		Where("provider_type = ? AND price_krw = ? AND valid_until < ? AND expired_at IS NULL",
			enums.ProviderTypeManual, PricePendingManual, cutoff).
		Order("valid_until ASC").
		Limit(limit).
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repository) MarkQuoteExpired(ctx context.Context, quoteID string, expiredAt time.Time) error {
	var quote models.ShippingQuote
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		First(&quote).Error
	if err != nil {
		return err
	}

	metadata := quote.Metadata
	if metadata == nil {
		metadata = types.JSONMap{}
	}
	metadata["expired"] = true
	metadata["expiredAt"] = expiredAt.UTC().Format(time.RFC3339)

	return r.db.WithContext(ctx).
		Model(&models.ShippingQuote{}).
		Where("quote_id = ?", quoteID).
		Updates(map[string]any{
			"expired_at": expiredAt,
			"metadata":   &metadata,
		}).Error
}

func (r *repository) UpsertBooking(ctx context.Context, booking *models.ShippingBooking) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quote_id", "provider_id", "customer_id", "restaurant_id",
				"status", "price_krw", "currency", "external_booking_id",
				"tracking_url", "metadata", "confirmed_at", "cancelled_at",
				"updated_at",
			}),
		}).
		Create(booking).Error
}

func (r *repository) FindBookingByOrderID(ctx context.Context, orderID uuid.UUID) (*models.ShippingBooking, error) {
	var booking models.ShippingBooking
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindBookingByQuoteID(ctx context.Context, quoteID string) (*models.ShippingBooking, error) {
	var booking models.ShippingBooking
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// OrderShippingUpdate carries the shipping fields the quote flow is allowed
// to write on an order. Nil pointers leave the column untouched; SetPriceNil
// explicitly clears the adopted price for pending-manual quotes.
type OrderShippingUpdate struct {
	Status      enums.OrderShippingStatus
	QuoteID     *string
	PriceKRW    *int64
	SetPriceNil bool
}

func (r *repository) UpdateOrderShipping(ctx context.Context, orderID uuid.UUID, update OrderShippingUpdate) error {
	updates := map[string]any{"shipping_status": update.Status}
	if update.QuoteID != nil {
		updates["shipping_quote_id"] = *update.QuoteID
	}
	if update.SetPriceNil {
		updates["shipping_price_krw"] = nil
	} else if update.PriceKRW != nil {
		updates["shipping_price_krw"] = *update.PriceKRW
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status enums.BookingStatus, at time.Time) error {
	updates := map[string]any{"status": status}
	switch status {
	case enums.BookingStatusConfirmed:
		updates["confirmed_at"] = at
	case enums.BookingStatusCancelled:
		updates["cancelled_at"] = at
	}

	result := r.db.WithContext(ctx).
		Model(&models.ShippingBooking{}).
		Where("id = ?", bookingID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetBookingPrice replaces the booking's price, clearing the pending-manual
// sentinel once a restaurant has decided.
func (r *repository) SetBookingPrice(ctx context.Context, bookingID uuid.UUID, priceKRW int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.ShippingBooking{}).
		Where("id = ?", bookingID).
		Update("price_krw", priceKRW)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementOriginLoad reserves one slot of origin capacity. The guard in the
// WHERE clause is what keeps the counter from exceeding max_capacity under
// concurrent bookings; false means the origin is already full.
func (r *repository) IncrementOriginLoad(ctx context.Context, originID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.DeliveryOrigin{}).
		Where("origin_id = ? AND current_load < max_capacity", originID).
		Update("current_load", gorm.Expr("current_load + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DecrementOriginLoad(ctx context.Context, originID string) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliveryOrigin{}).
		Where("origin_id = ? AND current_load > 0", originID).
		Update("current_load", gorm.Expr("current_load - 1")).Error
}

func (r *repository) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}
