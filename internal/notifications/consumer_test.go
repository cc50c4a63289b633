package notifications

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/logger"
	"github.com/mokja-app/mokja-backend/pkg/outbox/payloads"
	"github.com/mokja-app/mokja-backend/pkg/outbox/registry"
)

type recordingRepo struct {
	created []*models.Notification
}

func (r *recordingRepo) Create(_ context.Context, notification *models.Notification) error {
	r.created = append(r.created, notification)
	return nil
}

func newTestConsumer(repo repository) *Consumer {
	decoders := registry.NewDecoderRegistry()
	decoders.Register(enums.EventNotificationRequested, 1, func(payload json.RawMessage) (interface{}, error) {
		var event payloads.NotificationRequestedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return &event, nil
	})
	return &Consumer{
		repo:     repo,
		decoders: decoders,
		logg:     logger.New(logger.Options{ServiceName: "consumer-test"}),
	}
}

func TestHandlePayloadCreatesPriceRequestNotification(t *testing.T) {
	repo := &recordingRepo{}
	consumer := newTestConsumer(repo)
	orderID := uuid.New()
	restaurantID := uuid.New()

	err := consumer.handlePayload(context.Background(), payloads.NotificationRequestedEvent{
		OrderID:      orderID,
		CustomerID:   uuid.New(),
		RestaurantID: restaurantID,
		Type:         "price_requested",
	}, context.Background())
	if err != nil {
		t.Fatalf("handle payload: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one notification, got %d", len(repo.created))
	}
	created := repo.created[0]
	if created.RestaurantID != restaurantID {
		t.Fatalf("unexpected restaurant %s", created.RestaurantID)
	}
	if created.Type != enums.NotificationTypePriceRequested {
		t.Fatalf("unexpected type %s", created.Type)
	}
	if created.Title != "Delivery price needed" {
		t.Fatalf("unexpected title %q", created.Title)
	}
	if created.Link == nil || *created.Link != "/restaurant/orders/"+orderID.String() {
		t.Fatalf("unexpected link %v", created.Link)
	}
	if created.OrderID == nil || *created.OrderID != orderID {
		t.Fatalf("unexpected order id %v", created.OrderID)
	}
}

func TestHandlePayloadRejectsMissingRestaurant(t *testing.T) {
	repo := &recordingRepo{}
	consumer := newTestConsumer(repo)

	err := consumer.handlePayload(context.Background(), payloads.NotificationRequestedEvent{
		OrderID: uuid.New(),
		Type:    "price_requested",
	}, context.Background())
	if err == nil {
		t.Fatalf("expected error for missing restaurant id")
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no notifications, got %d", len(repo.created))
	}
}

func TestHandlePayloadSkipsUnknownType(t *testing.T) {
	repo := &recordingRepo{}
	consumer := newTestConsumer(repo)

	err := consumer.handlePayload(context.Background(), payloads.NotificationRequestedEvent{
		OrderID:      uuid.New(),
		RestaurantID: uuid.New(),
		Type:         "marketing_blast",
	}, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no notifications for unknown type, got %d", len(repo.created))
	}
}
