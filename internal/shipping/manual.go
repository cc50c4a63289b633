package shipping

import (
	"context"
	"time"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
)

const manualDefaultEtaMinutes = 45

// ManualProvider emits a placeholder quote whose price the restaurant sets
// afterwards. The placeholder stays valid for 24 hours by default.
type ManualProvider struct {
	config *models.ShippingProvider
	ttl    time.Duration

	now func() time.Time
}

// NewManualProvider builds a manual provider with the given validity window.
func NewManualProvider(config *models.ShippingProvider, ttl time.Duration) *ManualProvider {
	return &ManualProvider{config: config, ttl: ttl, now: time.Now}
}

func (p *ManualProvider) ProviderID() string {
	return p.config.ProviderID
}

// CanDeliver always holds: a restaurant can always choose to price a
// delivery by hand.
func (p *ManualProvider) CanDeliver(ctx context.Context, req Request) (bool, error) {
	return true, nil
}

// GetQuotes returns exactly one pending-price quote.
func (p *ManualProvider) GetQuotes(ctx context.Context, req Request) ([]Quote, error) {
	now := p.now()
	return []Quote{{
		QuoteID:                        NewQuoteID(p.config.ProviderID, now),
		ProviderID:                     p.config.ProviderID,
		ProviderName:                   p.config.Name,
		ProviderType:                   enums.ProviderTypeManual,
		PriceKRW:                       PricePendingManual,
		Currency:                       enums.CurrencyKRW,
		EtaMinutes:                     manualDefaultEtaMinutes,
		ValidUntil:                     now.Add(p.ttl),
		RequiresRestaurantConfirmation: true,
		Metadata: map[string]any{
			"requiresRestaurantConfirmation": true,
		},
	}}, nil
}
