package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	pkgerrors "github.com/mokja-app/mokja-backend/pkg/errors"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/metrics"
	"github.com/mokja-app/mokja-backend/pkg/outbox"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// Stable result strings clients can branch on.
const (
	ResultNoProvidersEnabled   = "no_providers_enabled"
	ResultDeliveryNotAvailable = "delivery_not_available"
	FallbackExternalFailed     = "external_failed"

	ErrQuoteNotFound         = "quote_not_found"
	ErrQuoteExpired          = "quote_expired"
	ErrExternalBookingFailed = "external_booking_failed"
	ErrNotManualProvider     = "not_manual_provider"
	ErrUnauthorized          = "unauthorized"
)

const defaultProviderCallTimeout = 2 * time.Second

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// QuoteResult is the aggregate outcome of one quote request.
type QuoteResult struct {
	Quotes         []Quote `json:"quotes"`
	Error          string  `json:"error,omitempty"`
	FallbackReason string  `json:"fallbackReason,omitempty"`
}

// SelectQuoteInput commits one quote to one order.
type SelectQuoteInput struct {
	QuoteID    string
	OrderID    uuid.UUID
	CustomerID uuid.UUID
}

// SetManualPriceInput carries a restaurant's price decision.
type SetManualPriceInput struct {
	OrderID      uuid.UUID
	PriceKRW     int64
	RestaurantID uuid.UUID
}

// CustomerResponseAction is the customer's answer to a manual price.
type CustomerResponseAction string

const (
	CustomerResponseAccept CustomerResponseAction = "accept"
	CustomerResponseReject CustomerResponseAction = "reject"
)

// CustomerResponseInput carries the customer's accept/reject decision.
type CustomerResponseInput struct {
	OrderID    uuid.UUID
	Action     CustomerResponseAction
	CustomerID uuid.UUID
}

// ProviderSummary is the credential-free view of one provider config.
type ProviderSummary struct {
	ID           uuid.UUID          `json:"id"`
	ProviderID   string             `json:"providerId"`
	Name         string             `json:"name"`
	ProviderType enums.ProviderType `json:"providerType"`
	IsEnabled    bool               `json:"isEnabled"`
	Priority     int                `json:"priority"`
}

// ToggleProviderInput flips the enable flag for one provider config.
type ToggleProviderInput struct {
	RestaurantID uuid.UUID
	ProviderID   string
	Enabled      bool
}

// SweepStats summarizes one expiry sweep run.
type SweepStats struct {
	Scanned int
	Expired int
	Errors  int
}

// Service orchestrates quotes, bookings and the manual-price workflow.
type Service interface {
	GetQuotes(ctx context.Context, req Request) (*QuoteResult, error)
	SelectQuote(ctx context.Context, input SelectQuoteInput) (*Booking, error)
	SetManualPrice(ctx context.Context, input SetManualPriceInput) error
	CustomerResponse(ctx context.Context, input CustomerResponseInput) error
	ListProviders(ctx context.Context, restaurantID uuid.UUID) ([]ProviderSummary, error)
	SetProviderEnabled(ctx context.Context, input ToggleProviderInput) error
	ExpirePendingManualQuotes(ctx context.Context, batchSize int) (SweepStats, error)
}

type service struct {
	repo        Repository
	registry    *Registry
	tx          txRunner
	outbox      outboxPublisher
	logg        *logger.Logger
	provMetrics *metrics.ProviderMetrics
	callTimeout time.Duration

	now func() time.Time
}

// ServiceParams collects the orchestrator's dependencies.
type ServiceParams struct {
	Repo            Repository
	Registry        *Registry
	Tx              txRunner
	Outbox          outboxPublisher
	Logger          *logger.Logger
	ProviderMetrics *metrics.ProviderMetrics
	CallTimeout     time.Duration
}

// NewService validates dependencies and builds the orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("shipping service requires a repository")
	}
	if params.Registry == nil {
		return nil, errors.New("shipping service requires a provider registry")
	}
	if params.Tx == nil {
		return nil, errors.New("shipping service requires a transaction runner")
	}
	if params.Logger == nil {
		return nil, errors.New("shipping service requires a logger")
	}

	timeout := params.CallTimeout
	if timeout <= 0 {
		timeout = defaultProviderCallTimeout
	}

	return &service{
		repo:        params.Repo,
		registry:    params.Registry,
		tx:          params.Tx,
		outbox:      params.Outbox,
		logg:        params.Logger,
		provMetrics: params.ProviderMetrics,
		callTimeout: timeout,
		now:         time.Now,
	}, nil
}

type providerOutcome struct {
	config *models.ShippingProvider
	quotes []Quote
	err    error
}

// GetQuotes fans out to every enabled provider concurrently under a per-call
// deadline, collects every outcome, and degrades instead of failing when a
// subset of providers breaks.
func (s *service) GetQuotes(ctx context.Context, req Request) (*QuoteResult, error) {
	providers, err := s.registry.ProvidersFor(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return &QuoteResult{Quotes: []Quote{}, Error: ResultNoProvidersEnabled}, nil
	}

	results := make(chan providerOutcome, len(providers))
	for _, built := range providers {
		go func(built BuiltProvider) {
			start := s.now()
			quotes, err := s.callProvider(ctx, built.Provider, req)
			s.provMetrics.ObserveCall(built.Config.ProviderID, time.Since(start))
			results <- providerOutcome{config: built.Config, quotes: quotes, err: err}
		}(built)
	}

	var (
		quotes         []Quote
		externalFailed bool
		internalFailed bool
	)
	for range providers {
		outcome := <-results
		if outcome.err != nil {
			s.recordProviderFailure(ctx, outcome)
			if outcome.config.Type == enums.ProviderTypeExternal {
				externalFailed = true
			} else {
				internalFailed = true
			}
			continue
		}
		s.provMetrics.AddQuotes(outcome.config.ProviderID, len(outcome.quotes))
		quotes = append(quotes, outcome.quotes...)
	}

	if len(quotes) == 0 {
		if externalFailed && !internalFailed && hasInternal(providers) {
			return &QuoteResult{Quotes: []Quote{}, FallbackReason: FallbackExternalFailed}, nil
		}
		return &QuoteResult{Quotes: []Quote{}, Error: ResultDeliveryNotAvailable}, nil
	}

	s.persistQuotes(ctx, req, quotes)

	result := &QuoteResult{Quotes: quotes}
	if externalFailed {
		result.FallbackReason = FallbackExternalFailed
	}
	return result, nil
}

// callProvider races one provider call against its deadline. The buffered
// channel lets a late result be discarded without leaking the goroutine,
// and the deadline context gives the provider a real cancellation signal.
func (s *service) callProvider(ctx context.Context, provider Provider, req Request) ([]Quote, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	done := make(chan providerOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- providerOutcome{err: &ProviderError{
					ProviderID: provider.ProviderID(),
					Message:    fmt.Sprintf("provider panicked: %v", r),
				}}
			}
		}()
		quotes, err := provider.GetQuotes(callCtx, req)
		done <- providerOutcome{quotes: quotes, err: err}
	}()

	select {
	case outcome := <-done:
		return outcome.quotes, outcome.err
	case <-callCtx.Done():
		s.provMetrics.IncTimeout(provider.ProviderID())
		return nil, &ProviderError{
			ProviderID: provider.ProviderID(),
			Timeout:    true,
			Message:    "quote call exceeded deadline",
		}
	}
}

func (s *service) recordProviderFailure(ctx context.Context, outcome providerOutcome) {
	s.provMetrics.IncFailure(outcome.config.ProviderID)
	logCtx := s.logg.WithProviderID(ctx, outcome.config.ProviderID)
	s.logg.Warn(logCtx, fmt.Sprintf("provider quote call failed: %v", outcome.err))
}

func hasInternal(providers []BuiltProvider) bool {
	for _, built := range providers {
		if built.Config.Type != enums.ProviderTypeExternal {
			return true
		}
	}
	return false
}

// persistQuotes stores every returned quote best-effort; one failed insert
// never drops the quote from the response.
func (s *service) persistQuotes(ctx context.Context, req Request, quotes []Quote) {
	snapshot := snapshotFromRequest(req, s.now())
	for _, quote := range quotes {
		row := quoteToModel(quote, req, snapshot)
		if err := s.repo.CreateQuote(ctx, row); err != nil {
			logCtx := s.logg.WithProviderID(ctx, quote.ProviderID)
			s.logg.Warn(logCtx, fmt.Sprintf("persist quote %s failed: %v", quote.QuoteID, err))
		}
	}
}

// SelectQuote turns a still-valid quote into the order's single booking.
func (s *service) SelectQuote(ctx context.Context, input SelectQuoteInput) (*Booking, error) {
	quote, err := s.repo.FindQuoteByQuoteID(ctx, input.QuoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, ErrQuoteNotFound)
		}
		return nil, err
	}
	if quote.CustomerID != nil && *quote.CustomerID != input.CustomerID {
		// Another customer's quote is invisible, not forbidden.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, ErrQuoteNotFound)
	}

	now := s.now()
	if quote.ValidUntil.Before(now) {
		return nil, pkgerrors.New(pkgerrors.CodeExpired, ErrQuoteExpired)
	}

	booking := &models.ShippingBooking{
		OrderID:      input.OrderID,
		QuoteID:      quote.QuoteID,
		ProviderID:   quote.ProviderID,
		CustomerID:   input.CustomerID,
		RestaurantID: quote.RestaurantID,
		PriceKRW:     quote.PriceKRW,
		Currency:     quote.Currency,
		Metadata:     map[string]any{},
	}

	orderUpdate := OrderShippingUpdate{QuoteID: &quote.QuoteID}

	switch quote.ProviderType {
	case enums.ProviderTypeExternal:
		external, err := s.bookExternal(ctx, quote)
		if err != nil {
			return nil, err
		}
		booking.Status = external.Status
		booking.TrackingURL = external.TrackingURL
		booking.ExternalBookingID = external.ExternalBookingID
		if booking.Status == enums.BookingStatusConfirmed {
			booking.ConfirmedAt = &now
		}
		orderUpdate.Status = enums.OrderShippingStatusQuoted
		orderUpdate.PriceKRW = &quote.PriceKRW

	case enums.ProviderTypeManual:
		booking.Status = enums.BookingStatusPending
		orderUpdate.Status = enums.OrderShippingStatusPendingManual
		orderUpdate.SetPriceNil = true

	default:
		booking.Status = enums.BookingStatusConfirmed
		booking.ConfirmedAt = &now
		orderUpdate.Status = enums.OrderShippingStatusQuoted
		orderUpdate.PriceKRW = &quote.PriceKRW
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpsertBooking(ctx, booking); err != nil {
			return err
		}
		if err := repo.UpdateOrderShipping(ctx, input.OrderID, orderUpdate); err != nil {
			return err
		}
		if err := s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBookingCreated,
			AggregateType: enums.AggregateShippingBooking,
			AggregateID:   booking.OrderID,
			Data: map[string]any{
				"orderId":    booking.OrderID,
				"quoteId":    booking.QuoteID,
				"providerId": booking.ProviderID,
				"status":     booking.Status,
				"price":      booking.PriceKRW,
			},
		}); err != nil {
			return err
		}
		if quote.ProviderType != enums.ProviderTypeManual {
			return nil
		}
		// The restaurant has to price this one; surface it in their inbox.
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventNotificationRequested,
			AggregateType: enums.AggregateNotification,
			AggregateID:   booking.OrderID,
			Data: map[string]any{
				"orderId":      booking.OrderID,
				"customerId":   booking.CustomerID,
				"restaurantId": booking.RestaurantID,
				"type":         "price_requested",
			},
		})
	})
	if err != nil {
		return nil, err
	}

	// Capacity accounting happens after the booking is durable; a full
	// origin is logged, not treated as a booking failure.
	if quote.ProviderType == enums.ProviderTypeDistance {
		if originID, ok := quote.Metadata["originId"].(string); ok && originID != "" {
			incremented, err := s.repo.IncrementOriginLoad(ctx, originID)
			if err != nil || !incremented {
				logCtx := s.logg.WithProviderID(ctx, quote.ProviderID)
				s.logg.Warn(logCtx, fmt.Sprintf("origin %s load not incremented (full or error: %v)", originID, err))
			}
		}
	}

	return &Booking{
		BookingID:         booking.ID.String(),
		QuoteID:           booking.QuoteID,
		OrderID:           booking.OrderID,
		ProviderID:        booking.ProviderID,
		Status:            booking.Status,
		PriceKRW:          booking.PriceKRW,
		TrackingURL:       booking.TrackingURL,
		ExternalBookingID: booking.ExternalBookingID,
	}, nil
}

// bookExternal re-instantiates the adapter from the stored config and books
// with the partner. Failures come back as a typed result the caller can
// retry on, never as a raw adapter error.
func (s *service) bookExternal(ctx context.Context, quote *models.ShippingQuote) (*Booking, error) {
	config, err := s.repo.FindProviderConfigByProviderID(ctx, quote.RestaurantID, quote.ProviderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, ErrExternalBookingFailed)
	}

	provider, err := s.registry.Build(config)
	if err != nil {
		return nil, err
	}
	booker, ok := provider.(Booker)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, ErrExternalBookingFailed)
	}

	var snapshot types.QuoteRequestSnapshot
	if quote.RequestSnapshot != nil {
		snapshot = *quote.RequestSnapshot
	}

	booking, err := booker.Book(ctx, quoteFromModel(quote), snapshot)
	if err != nil {
		logCtx := s.logg.WithProviderID(ctx, quote.ProviderID)
		s.logg.Warn(logCtx, fmt.Sprintf("external booking failed: %v", err))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, ErrExternalBookingFailed)
	}
	return booking, nil
}

// SetManualPrice resolves a pending manual quote with the restaurant's
// price and hands the decision to the customer.
func (s *service) SetManualPrice(ctx context.Context, input SetManualPriceInput) error {
	if input.PriceKRW < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or positive")
	}

	booking, err := s.repo.FindBookingByOrderID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no booking for order")
		}
		return err
	}

	quote, err := s.repo.FindQuoteByQuoteID(ctx, booking.QuoteID)
	if err != nil {
		return err
	}
	if quote.ProviderType != enums.ProviderTypeManual {
		return pkgerrors.New(pkgerrors.CodeStateConflict, ErrNotManualProvider)
	}
	if quote.RestaurantID != input.RestaurantID {
		return pkgerrors.New(pkgerrors.CodeForbidden, ErrUnauthorized)
	}

	now := s.now()
	metadata := map[string]any{}
	for key, value := range quote.Metadata {
		metadata[key] = value
	}
	metadata["priceSetBy"] = input.RestaurantID.String()
	metadata["priceSetAt"] = now.UTC().Format(time.RFC3339)

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SetQuotePrice(ctx, quote.QuoteID, input.PriceKRW, metadata); err != nil {
			return err
		}
		if err := repo.UpdateBookingStatus(ctx, booking.ID, enums.BookingStatusConfirmed, now); err != nil {
			return err
		}
		if err := repo.SetBookingPrice(ctx, booking.ID, input.PriceKRW); err != nil {
			return err
		}
		if err := repo.UpdateOrderShipping(ctx, input.OrderID, OrderShippingUpdate{
			Status:   enums.OrderShippingStatusAwaitingCustomer,
			PriceKRW: &input.PriceKRW,
		}); err != nil {
			return err
		}
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventManualPriceSet,
			AggregateType: enums.AggregateShippingQuote,
			AggregateID:   input.OrderID,
			Data: map[string]any{
				"orderId": input.OrderID,
				"quoteId": quote.QuoteID,
				"price":   input.PriceKRW,
			},
		})
	})
}

// CustomerResponse records the customer's accept/reject of a manual price.
func (s *service) CustomerResponse(ctx context.Context, input CustomerResponseInput) error {
	if input.Action != CustomerResponseAccept && input.Action != CustomerResponseReject {
		return pkgerrors.New(pkgerrors.CodeValidation, "action must be accept or reject")
	}

	booking, err := s.repo.FindBookingByOrderID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no booking for order")
		}
		return err
	}
	if booking.CustomerID != input.CustomerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, ErrUnauthorized)
	}

	now := s.now()
	accepted := input.Action == CustomerResponseAccept

	status := enums.BookingStatusCancelled
	orderStatus := enums.OrderShippingStatusCancelledByCustomer
	eventType := enums.EventCustomerRejected
	if accepted {
		status = enums.BookingStatusConfirmed
		orderStatus = enums.OrderShippingStatusConfirmed
		eventType = enums.EventCustomerAccepted
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateBookingStatus(ctx, booking.ID, status, now); err != nil {
			return err
		}
		if err := repo.UpdateOrderShipping(ctx, input.OrderID, OrderShippingUpdate{Status: orderStatus}); err != nil {
			return err
		}
		if err := s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateShippingBooking,
			AggregateID:   input.OrderID,
			Data: map[string]any{
				"orderId": input.OrderID,
				"quoteId": booking.QuoteID,
				"action":  string(input.Action),
			},
		}); err != nil {
			return err
		}
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventNotificationRequested,
			AggregateType: enums.AggregateNotification,
			AggregateID:   input.OrderID,
			Data: map[string]any{
				"orderId":      input.OrderID,
				"customerId":   booking.CustomerID,
				"restaurantId": booking.RestaurantID,
				"type":         "booking_update",
			},
		})
	})
	if err != nil {
		return err
	}

	if !accepted {
		s.releaseOriginFor(ctx, booking)
	}
	return nil
}

// releaseOriginFor frees capacity reserved by a distance booking.
func (s *service) releaseOriginFor(ctx context.Context, booking *models.ShippingBooking) {
	quote, err := s.repo.FindQuoteByQuoteID(ctx, booking.QuoteID)
	if err != nil || quote.ProviderType != enums.ProviderTypeDistance {
		return
	}
	originID, ok := quote.Metadata["originId"].(string)
	if !ok || originID == "" {
		return
	}
	if err := s.repo.DecrementOriginLoad(ctx, originID); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("origin %s load not decremented: %v", originID, err))
	}
}

// ListProviders returns every provider config for the restaurant with the
// credential blob stripped.
func (s *service) ListProviders(ctx context.Context, restaurantID uuid.UUID) ([]ProviderSummary, error) {
	configs, err := s.repo.FindProviderConfigs(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProviderSummary, 0, len(configs))
	for _, config := range configs {
		summaries = append(summaries, ProviderSummary{
			ID:           config.ID,
			ProviderID:   config.ProviderID,
			Name:         config.Name,
			ProviderType: config.Type,
			IsEnabled:    config.Enabled,
			Priority:     config.Priority,
		})
	}
	return summaries, nil
}

// SetProviderEnabled flips one provider's enable flag.
func (s *service) SetProviderEnabled(ctx context.Context, input ToggleProviderInput) error {
	err := s.repo.SetProviderEnabled(ctx, input.RestaurantID, input.ProviderID, input.Enabled)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "provider config not found")
	}
	return err
}

// ExpirePendingManualQuotes flags stale pending-price quotes in one bounded
// batch, cancels their bookings, and queues customer notifications. Quotes
// are never hard-deleted.
func (s *service) ExpirePendingManualQuotes(ctx context.Context, batchSize int) (SweepStats, error) {
	now := s.now()
	quotes, err := s.repo.FindExpiredManualQuotes(ctx, now, batchSize)
	if err != nil {
		return SweepStats{}, err
	}

	stats := SweepStats{Scanned: len(quotes)}
	for _, quote := range quotes {
		if err := s.expireOne(ctx, quote, now); err != nil {
			stats.Errors++
			s.logg.Warn(ctx, fmt.Sprintf("expire quote %s failed: %v", quote.QuoteID, err))
			continue
		}
		stats.Expired++
	}
	return stats, nil
}

func (s *service) expireOne(ctx context.Context, quote models.ShippingQuote, now time.Time) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.MarkQuoteExpired(ctx, quote.QuoteID, now); err != nil {
			return err
		}

		booking, err := repo.FindBookingByQuoteID(ctx, quote.QuoteID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if booking != nil && booking.Status == enums.BookingStatusPending {
			if err := repo.UpdateBookingStatus(ctx, booking.ID, enums.BookingStatusCancelled, now); err != nil {
				return err
			}
			if err := repo.UpdateOrderShipping(ctx, booking.OrderID, OrderShippingUpdate{
				Status: enums.OrderShippingStatusCancelledTimeout,
			}); err != nil {
				return err
			}
			if err := s.emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventNotificationRequested,
				AggregateType: enums.AggregateNotification,
				AggregateID:   booking.OrderID,
				Data: map[string]any{
					"orderId":      booking.OrderID,
					"customerId":   booking.CustomerID,
					"restaurantId": booking.RestaurantID,
					"type":         "quote_expired",
				},
			}); err != nil {
				return err
			}
		}

		aggregateID := quote.RestaurantID
		if booking != nil {
			aggregateID = booking.OrderID
		}
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteExpired,
			AggregateType: enums.AggregateShippingQuote,
			AggregateID:   aggregateID,
			Data: map[string]any{
				"quoteId":    quote.QuoteID,
				"providerId": quote.ProviderID,
				"expiredAt":  now.UTC().Format(time.RFC3339),
			},
		})
	})
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.outbox == nil {
		return nil
	}
	return s.outbox.Emit(ctx, tx, event)
}

func snapshotFromRequest(req Request, now time.Time) *types.QuoteRequestSnapshot {
	return &types.QuoteRequestSnapshot{
		RestaurantID:  req.RestaurantID,
		CustomerID:    req.CustomerID,
		Destination:   req.Destination,
		Address:       req.Address,
		OrderTotalKRW: req.OrderTotalKRW,
		ScheduledAt:   req.ScheduledOrNow(now),
	}
}

func quoteToModel(quote Quote, req Request, snapshot *types.QuoteRequestSnapshot) *models.ShippingQuote {
	return &models.ShippingQuote{
		QuoteID:         quote.QuoteID,
		ProviderID:      quote.ProviderID,
		ProviderName:    quote.ProviderName,
		ProviderType:    quote.ProviderType,
		RestaurantID:    req.RestaurantID,
		CustomerID:      req.CustomerID,
		PriceKRW:        quote.PriceKRW,
		Currency:        quote.Currency,
		EtaMinutes:      quote.EtaMinutes,
		ValidUntil:      quote.ValidUntil,
		Features:        quote.Features,
		TrackingURL:     quote.TrackingURL,
		Metadata:        quote.Metadata,
		RequestSnapshot: snapshot,
	}
}

func quoteFromModel(m *models.ShippingQuote) Quote {
	return Quote{
		QuoteID:      m.QuoteID,
		ProviderID:   m.ProviderID,
		ProviderName: m.ProviderName,
		ProviderType: m.ProviderType,
		PriceKRW:     m.PriceKRW,
		Currency:     m.Currency,
		EtaMinutes:   m.EtaMinutes,
		ValidUntil:   m.ValidUntil,
		Features:     m.Features,
		Metadata:     m.Metadata,
		TrackingURL:  m.TrackingURL,
	}
}
