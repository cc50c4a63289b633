package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"go.uber.org/multierr"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/outbox"
	"github.com/mokja-app/mokja-backend/pkg/outbox/idempotency"
	"github.com/mokja-app/mokja-backend/pkg/outbox/payloads"
	"github.com/mokja-app/mokja-backend/pkg/outbox/registry"
	"github.com/google/uuid"
)

const shippingNotificationConsumer = "shipping-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches shipping domain events and turns notification requests
// into restaurant inbox rows.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	decoders     *registry.DecoderRegistry
	logg         *logger.Logger
}

// NewConsumer builds a shipping notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("shipping subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	decoders := registry.NewDecoderRegistry()
	decoders.Register(enums.EventNotificationRequested, 1, func(payload json.RawMessage) (interface{}, error) {
		var event payloads.NotificationRequestedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return &event, nil
	})
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		decoders:     decoders,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if eventType != string(enums.EventNotificationRequested) {
		c.logg.Info(logCtx, "skipping non-notification event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, shippingNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	decoded, err := c.decoders.Decode(enums.EventNotificationRequested, envelope.Version, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to decode payload", c.releaseOnFailure(ctx, eventID, err))
		return processResult{nack: true}
	}
	payload, ok := decoded.(*payloads.NotificationRequestedEvent)
	if !ok {
		c.logg.Error(logCtx, "unexpected payload type", fmt.Errorf("got %T", decoded))
		return processResult{ack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"order_id":      payload.OrderID.String(),
		"restaurant_id": payload.RestaurantID.String(),
		"type":          payload.Type,
	})

	if err := c.handlePayload(ctx, *payload, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", c.releaseOnFailure(ctx, eventID, err))
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

// releaseOnFailure frees the idempotency slot so a redelivery can retry, and
// folds any release failure into the original error.
func (c *Consumer) releaseOnFailure(ctx context.Context, eventID uuid.UUID, err error) error {
	if delErr := c.idempotency.Delete(ctx, shippingNotificationConsumer, eventID); delErr != nil {
		err = multierr.Append(err, fmt.Errorf("release idempotency key: %w", delErr))
	}
	return err
}

func (c *Consumer) handlePayload(ctx context.Context, payload payloads.NotificationRequestedEvent, logCtx context.Context) error {
	if payload.RestaurantID == uuid.Nil {
		return fmt.Errorf("restaurant id missing")
	}

	kind, err := enums.ParseNotificationType(payload.Type)
	if err != nil {
		c.logg.Info(logCtx, "notification type not handled")
		return nil
	}

	orderID := payload.OrderID.String()
	link := fmt.Sprintf("/restaurant/orders/%s", orderID)

	var title, message string
	switch kind {
	case enums.NotificationTypePriceRequested:
		title = "Delivery price needed"
		message = fmt.Sprintf("Order %s is waiting for a delivery price.", orderID)
	case enums.NotificationTypeQuoteExpired:
		title = "Quote expired"
		message = fmt.Sprintf("The pending quote for order %s expired before it was priced.", orderID)
	case enums.NotificationTypeBookingUpdate:
		title = "Customer responded"
		message = fmt.Sprintf("The customer responded to the delivery price on order %s.", orderID)
	default:
		title = "Update"
		message = fmt.Sprintf("Order %s has a delivery update.", orderID)
	}

	notification := &models.Notification{
		RestaurantID: payload.RestaurantID,
		OrderID:      &payload.OrderID,
		Type:         kind,
		Title:        title,
		Message:      message,
		Link:         stringPtr(link),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "restaurant notified")
	return nil
}

func stringPtr(value string) *string {
	return &value
}
