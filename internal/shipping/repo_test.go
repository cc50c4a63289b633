package shipping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
)

func setupShippingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	providers := `
CREATE TABLE IF NOT EXISTS shipping_providers (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  provider_id TEXT NOT NULL,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  enabled INTEGER NOT NULL DEFAULT 0,
  priority INTEGER NOT NULL DEFAULT 100,
  credentials TEXT,
  settings TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (restaurant_id, provider_id)
);`
	origins := `
CREATE TABLE IF NOT EXISTS delivery_origins (
  id TEXT PRIMARY KEY,
  provider_config_id TEXT NOT NULL,
  origin_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  address TEXT,
  lat REAL NOT NULL,
  lng REAL NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  max_capacity INTEGER NOT NULL,
  current_load INTEGER NOT NULL DEFAULT 0,
  operating_hours TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	tiers := `
CREATE TABLE IF NOT EXISTS distance_tiers (
  id TEXT PRIMARY KEY,
  provider_config_id TEXT NOT NULL,
  tier_id TEXT NOT NULL UNIQUE,
  min_km REAL NOT NULL,
  max_km REAL NOT NULL,
  price_krw INTEGER NOT NULL,
  eta_minutes INTEGER NOT NULL,
  free_after_amount_krw INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	quotes := `
CREATE TABLE IF NOT EXISTS shipping_quotes (
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL UNIQUE,
  provider_id TEXT NOT NULL,
  provider_name TEXT NOT NULL,
  provider_type TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  customer_id TEXT,
  price_krw INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'KRW',
  eta_minutes INTEGER NOT NULL,
  valid_until DATETIME NOT NULL,
  features TEXT,
  tracking_url TEXT,
  metadata TEXT,
  request_snapshot TEXT,
  expired_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	bookings := `
CREATE TABLE IF NOT EXISTS shipping_bookings (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  quote_id TEXT NOT NULL,
  provider_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  price_krw INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'KRW',
  external_booking_id TEXT,
  tracking_url TEXT,
  metadata TEXT,
  confirmed_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT shipping_bookings_price_valid CHECK (price_krw >= -1)
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  total_krw INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'KRW',
  shipping_status TEXT NOT NULL DEFAULT 'pending',
  shipping_quote_id TEXT,
  shipping_price_krw INTEGER,
  delivery_address TEXT,
  placed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(providers).Error)
	require.NoError(t, db.Exec(origins).Error)
	require.NoError(t, db.Exec(tiers).Error)
	require.NoError(t, db.Exec(quotes).Error)
	require.NoError(t, db.Exec(bookings).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func newProviderConfig(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, providerID string, providerType enums.ProviderType, enabled bool, priority int) *models.ShippingProvider {
	t.Helper()

	config := &models.ShippingProvider{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		ProviderID:   providerID,
		Name:         providerID,
		Type:         providerType,
		Enabled:      enabled,
		Priority:     priority,
	}
	require.NoError(t, db.Create(config).Error)
	return config
}

func newQuoteRow(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, providerType enums.ProviderType, price int64, validUntil time.Time) *models.ShippingQuote {
	t.Helper()

	quote := &models.ShippingQuote{
		ID:           uuid.New(),
		QuoteID:      NewQuoteID("test-provider", time.Now()),
		ProviderID:   "test-provider",
		ProviderName: "Test Provider",
		ProviderType: providerType,
		RestaurantID: restaurantID,
		PriceKRW:     price,
		Currency:     enums.CurrencyKRW,
		EtaMinutes:   30,
		ValidUntil:   validUntil,
	}
	require.NoError(t, db.Create(quote).Error)
	return quote
}

func TestRepoEnabledConfigsOrderedByPriority(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	restaurantID := uuid.New()

	newProviderConfig(t, db, restaurantID, "slow-lane", enums.ProviderTypeManual, true, 200)
	newProviderConfig(t, db, restaurantID, "fast-lane", enums.ProviderTypeDistance, true, 10)
	newProviderConfig(t, db, restaurantID, "disabled", enums.ProviderTypeExternal, false, 1)
	newProviderConfig(t, db, uuid.New(), "other-restaurant", enums.ProviderTypeDistance, true, 1)

	configs, err := repo.FindEnabledProviderConfigs(ctx, restaurantID)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "fast-lane", configs[0].ProviderID)
	assert.Equal(t, "slow-lane", configs[1].ProviderID)
}

func TestRepoSetProviderEnabled(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	restaurantID := uuid.New()

	newProviderConfig(t, db, restaurantID, "toggle-me", enums.ProviderTypeManual, false, 100)

	require.NoError(t, repo.SetProviderEnabled(ctx, restaurantID, "toggle-me", true))

	config, err := repo.FindProviderConfigByProviderID(ctx, restaurantID, "toggle-me")
	require.NoError(t, err)
	assert.True(t, config.Enabled)

	err = repo.SetProviderEnabled(ctx, restaurantID, "does-not-exist", true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoUpsertBookingReplacesForSameOrder(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	first := &models.ShippingBooking{
		ID:           uuid.New(),
		OrderID:      orderID,
		QuoteID:      "quote-a",
		ProviderID:   "fleet",
		CustomerID:   uuid.New(),
		RestaurantID: uuid.New(),
		Status:       enums.BookingStatusPending,
		PriceKRW:     2000,
		Currency:     enums.CurrencyKRW,
	}
	require.NoError(t, repo.UpsertBooking(ctx, first))

	second := &models.ShippingBooking{
		ID:           uuid.New(),
		OrderID:      orderID,
		QuoteID:      "quote-b",
		ProviderID:   "partner",
		CustomerID:   first.CustomerID,
		RestaurantID: first.RestaurantID,
		Status:       enums.BookingStatusConfirmed,
		PriceKRW:     3500,
		Currency:     enums.CurrencyKRW,
	}
	require.NoError(t, repo.UpsertBooking(ctx, second))

	var count int64
	require.NoError(t, db.Model(&models.ShippingBooking{}).Where("order_id = ?", orderID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	booking, err := repo.FindBookingByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "quote-b", booking.QuoteID)
	assert.Equal(t, int64(3500), booking.PriceKRW)
	assert.Equal(t, enums.BookingStatusConfirmed, booking.Status)
}

func TestRepoIncrementOriginLoadStopsAtCapacity(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	originID := "origin-" + uuid.NewString()
	origin := &models.DeliveryOrigin{
		ID:               uuid.New(),
		ProviderConfigID: uuid.New(),
		OriginID:         originID,
		Name:             "Main Kitchen",
		Lat:              37.5665,
		Lng:              126.978,
		IsActive:         true,
		MaxCapacity:      2,
	}
	require.NoError(t, db.Create(origin).Error)

	for i := 0; i < 2; i++ {
		ok, err := repo.IncrementOriginLoad(ctx, originID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// Third reservation finds the origin full.
	ok, err := repo.IncrementOriginLoad(ctx, originID)
	require.NoError(t, err)
	assert.False(t, ok)

	var loaded models.DeliveryOrigin
	require.NoError(t, db.Where("origin_id = ?", originID).First(&loaded).Error)
	assert.Equal(t, 2, loaded.CurrentLoad)

	require.NoError(t, repo.DecrementOriginLoad(ctx, originID))
	require.NoError(t, db.Where("origin_id = ?", originID).First(&loaded).Error)
	assert.Equal(t, 1, loaded.CurrentLoad)
}

func TestRepoFindExpiredManualQuotesSkipsFlagged(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	restaurantID := uuid.New()
	now := time.Now()

	stale := newQuoteRow(t, db, restaurantID, enums.ProviderTypeManual, PricePendingManual, now.Add(-time.Hour))
	newQuoteRow(t, db, restaurantID, enums.ProviderTypeManual, PricePendingManual, now.Add(time.Hour))
	newQuoteRow(t, db, restaurantID, enums.ProviderTypeManual, 4000, now.Add(-time.Hour))
	newQuoteRow(t, db, restaurantID, enums.ProviderTypeDistance, 2000, now.Add(-time.Hour))

	expired, err := repo.FindExpiredManualQuotes(ctx, now, 1000)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.QuoteID, expired[0].QuoteID)

	require.NoError(t, repo.MarkQuoteExpired(ctx, stale.QuoteID, now))

	// Flagged quotes drop out of the next sweep but stay in the table.
	expired, err = repo.FindExpiredManualQuotes(ctx, now, 1000)
	require.NoError(t, err)
	assert.Empty(t, expired)

	quote, err := repo.FindQuoteByQuoteID(ctx, stale.QuoteID)
	require.NoError(t, err)
	flagged, _ := quote.Metadata["expired"].(bool)
	assert.True(t, flagged)
	assert.NotNil(t, quote.ExpiredAt)
}

func TestRepoExpirySweepNotStarvedByFlaggedQuotes(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	restaurantID := uuid.New()
	now := time.Now()

	// A backlog of already-flagged quotes, all older than the fresh one so
	// they would win the valid_until sort if the filter ran after the limit.
	for i := 0; i < 5; i++ {
		old := newQuoteRow(t, db, restaurantID, enums.ProviderTypeManual, PricePendingManual, now.Add(-time.Duration(i+2)*time.Hour))
		require.NoError(t, repo.MarkQuoteExpired(ctx, old.QuoteID, now))
	}
	fresh := newQuoteRow(t, db, restaurantID, enums.ProviderTypeManual, PricePendingManual, now.Add(-time.Hour))

	expired, err := repo.FindExpiredManualQuotes(ctx, now, 5)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, fresh.QuoteID, expired[0].QuoteID)
}

func TestRepoSetQuotePrice(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	quote := newQuoteRow(t, db, uuid.New(), enums.ProviderTypeManual, PricePendingManual, time.Now().Add(24*time.Hour))

	metadata := map[string]any{"priceSetBy": "restaurant-1"}
	require.NoError(t, repo.SetQuotePrice(ctx, quote.QuoteID, 4500, metadata))

	updated, err := repo.FindQuoteByQuoteID(ctx, quote.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), updated.PriceKRW)
	assert.Equal(t, "restaurant-1", updated.Metadata["priceSetBy"])

	err = repo.SetQuotePrice(ctx, "missing-quote", 100, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoUpdateOrderShipping(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	price := int64(3000)
	order := &models.Order{
		ID:               uuid.New(),
		CustomerID:       uuid.New(),
		RestaurantID:     uuid.New(),
		TotalKRW:         20000,
		Currency:         enums.CurrencyKRW,
		ShippingStatus:   enums.OrderShippingStatusPending,
		ShippingPriceKRW: &price,
	}
	require.NoError(t, db.Create(order).Error)

	quoteID := "manual_1_deadbeef"
	require.NoError(t, repo.UpdateOrderShipping(ctx, order.ID, OrderShippingUpdate{
		Status:      enums.OrderShippingStatusPendingManual,
		QuoteID:     &quoteID,
		SetPriceNil: true,
	}))

	var loaded models.Order
	require.NoError(t, db.Where("id = ?", order.ID).First(&loaded).Error)
	assert.Equal(t, enums.OrderShippingStatusPendingManual, loaded.ShippingStatus)
	require.NotNil(t, loaded.ShippingQuoteID)
	assert.Equal(t, quoteID, *loaded.ShippingQuoteID)
	assert.Nil(t, loaded.ShippingPriceKRW)

	err := repo.UpdateOrderShipping(ctx, uuid.New(), OrderShippingUpdate{Status: enums.OrderShippingStatusQuoted})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoUpdateBookingStatusStampsTimes(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	booking := &models.ShippingBooking{
		ID:           uuid.New(),
		OrderID:      uuid.New(),
		QuoteID:      "quote-c",
		ProviderID:   "manual",
		CustomerID:   uuid.New(),
		RestaurantID: uuid.New(),
		Status:       enums.BookingStatusPending,
		PriceKRW:     PricePendingManual,
		Currency:     enums.CurrencyKRW,
	}
	require.NoError(t, repo.UpsertBooking(ctx, booking))

	at := time.Now()
	require.NoError(t, repo.UpdateBookingStatus(ctx, booking.ID, enums.BookingStatusConfirmed, at))

	loaded, err := repo.FindBookingByOrderID(ctx, booking.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusConfirmed, loaded.Status)
	require.NotNil(t, loaded.ConfirmedAt)
	assert.Nil(t, loaded.CancelledAt)
}

func TestRepoBookingAcceptsPendingManualSentinel(t *testing.T) {
	db := setupShippingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	booking := &models.ShippingBooking{
		ID:           uuid.New(),
		OrderID:      uuid.New(),
		QuoteID:      "quote-manual",
		ProviderID:   "manual",
		CustomerID:   uuid.New(),
		RestaurantID: uuid.New(),
		Status:       enums.BookingStatusPending,
		PriceKRW:     PricePendingManual,
		Currency:     enums.CurrencyKRW,
	}
	// The price check must admit the sentinel or no manual quote could
	// ever be selected.
	require.NoError(t, repo.UpsertBooking(ctx, booking))

	require.NoError(t, repo.SetBookingPrice(ctx, booking.ID, 4500))

	loaded, err := repo.FindBookingByOrderID(ctx, booking.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), loaded.PriceKRW)

	err = repo.SetBookingPrice(ctx, uuid.New(), 100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
