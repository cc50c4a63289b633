package shipping

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
)

func manualConfig() *models.ShippingProvider {
	return &models.ShippingProvider{
		ID:           uuid.New(),
		RestaurantID: uuid.New(),
		ProviderID:   "restaurant-direct",
		Name:         "Restaurant Direct",
		Type:         enums.ProviderTypeManual,
		Enabled:      true,
	}
}

func TestManualProviderAlwaysDeliverable(t *testing.T) {
	provider := NewManualProvider(manualConfig(), 24*time.Hour)
	ok, err := provider.CanDeliver(context.Background(), Request{})
	if err != nil || !ok {
		t.Fatalf("expected deliverable, got ok=%v err=%v", ok, err)
	}
}

func TestManualProviderPlaceholderQuote(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	provider := NewManualProvider(manualConfig(), 24*time.Hour)
	provider.now = func() time.Time { return now }

	quotes, err := provider.GetQuotes(context.Background(), Request{RestaurantID: uuid.New()})
	if err != nil {
		t.Fatalf("get quotes: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected exactly one quote, got %d", len(quotes))
	}

	quote := quotes[0]
	if quote.PriceKRW != PricePendingManual {
		t.Fatalf("expected pending price sentinel, got %d", quote.PriceKRW)
	}
	if quote.EtaMinutes != manualDefaultEtaMinutes {
		t.Fatalf("expected default eta, got %d", quote.EtaMinutes)
	}
	if !quote.ValidUntil.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("expected 24h validity, got %v", quote.ValidUntil)
	}
	if !quote.RequiresRestaurantConfirmation {
		t.Fatal("expected restaurant confirmation flag")
	}
	if flagged, _ := quote.Metadata["requiresRestaurantConfirmation"].(bool); !flagged {
		t.Fatal("expected confirmation flag in metadata")
	}
	if !strings.HasPrefix(quote.QuoteID, "restaurant-direct_") {
		t.Fatalf("quote id %q missing provider prefix", quote.QuoteID)
	}
}
