package enums

import "fmt"

// OrderShippingStatus tracks where an order sits in the shipping flow.
type OrderShippingStatus string

const (
	OrderShippingStatusPending             OrderShippingStatus = "pending"
	OrderShippingStatusQuoted              OrderShippingStatus = "quoted"
	OrderShippingStatusPendingManual       OrderShippingStatus = "pending_manual"
	OrderShippingStatusAwaitingCustomer    OrderShippingStatus = "awaiting_customer_response"
	OrderShippingStatusConfirmed           OrderShippingStatus = "confirmed"
	OrderShippingStatusInProgress          OrderShippingStatus = "in_progress"
	OrderShippingStatusDelivered           OrderShippingStatus = "delivered"
	OrderShippingStatusCancelledTimeout    OrderShippingStatus = "cancelled_timeout"
	OrderShippingStatusCancelledByCustomer OrderShippingStatus = "cancelled_by_customer"
)

var validOrderShippingStatuses = []OrderShippingStatus{
	OrderShippingStatusPending,
	OrderShippingStatusQuoted,
	OrderShippingStatusPendingManual,
	OrderShippingStatusAwaitingCustomer,
	OrderShippingStatusConfirmed,
	OrderShippingStatusInProgress,
	OrderShippingStatusDelivered,
	OrderShippingStatusCancelledTimeout,
	OrderShippingStatusCancelledByCustomer,
}

// String implements fmt.Stringer.
func (o OrderShippingStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderShippingStatus.
func (o OrderShippingStatus) IsValid() bool {
	for _, candidate := range validOrderShippingStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderShippingStatus converts raw input into an OrderShippingStatus.
func ParseOrderShippingStatus(value string) (OrderShippingStatus, error) {
	for _, candidate := range validOrderShippingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order shipping status %q", value)
}
