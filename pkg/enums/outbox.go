package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateShippingQuote   OutboxAggregateType = "shipping_quote"
	AggregateShippingBooking OutboxAggregateType = "shipping_booking"
	AggregateOrder           OutboxAggregateType = "order"
	AggregateNotification    OutboxAggregateType = "notification"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateShippingQuote,
	AggregateShippingBooking,
	AggregateOrder,
	AggregateNotification,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderPlaced           OutboxEventType = "order_placed"
	EventQuoteCreated          OutboxEventType = "quote_created"
	EventQuoteExpired          OutboxEventType = "quote_expired"
	EventManualPriceSet        OutboxEventType = "manual_price_set"
	EventBookingCreated        OutboxEventType = "booking_created"
	EventBookingConfirmed      OutboxEventType = "booking_confirmed"
	EventBookingCancelled      OutboxEventType = "booking_cancelled"
	EventCustomerAccepted      OutboxEventType = "customer_accepted"
	EventCustomerRejected      OutboxEventType = "customer_rejected"
	EventNotificationRequested OutboxEventType = "notification_requested"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderPlaced,
	EventQuoteCreated,
	EventQuoteExpired,
	EventManualPriceSet,
	EventBookingCreated,
	EventBookingConfirmed,
	EventBookingCancelled,
	EventCustomerAccepted,
	EventCustomerRejected,
	EventNotificationRequested,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
