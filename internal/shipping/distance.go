package shipping

import (
	"context"
	"time"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/geo"
)

// DistanceProvider prices deliveries from a restaurant's own dispatch
// origins using flat distance tiers.
type DistanceProvider struct {
	config  *models.ShippingProvider
	origins []models.DeliveryOrigin
	tiers   []models.DistanceTier
	ttl     time.Duration

	now func() time.Time
}

// NewDistanceProvider builds a provider over the config's preloaded origins
// and tiers. The quote validity window comes from ttl.
func NewDistanceProvider(config *models.ShippingProvider, ttl time.Duration) *DistanceProvider {
	return &DistanceProvider{
		config:  config,
		origins: config.Origins,
		tiers:   config.Tiers,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (p *DistanceProvider) ProviderID() string {
	return p.config.ProviderID
}

// CanDeliver reports whether any origin survives filtering and the nearest
// one falls inside a priced tier.
func (p *DistanceProvider) CanDeliver(ctx context.Context, req Request) (bool, error) {
	origin, distanceKm := p.nearestAvailableOrigin(req)
	if origin == nil {
		return false, nil
	}
	return p.matchTier(distanceKm) != nil, nil
}

// GetQuotes returns exactly one quote, or nothing when the destination is
// outside the service radius or hours.
func (p *DistanceProvider) GetQuotes(ctx context.Context, req Request) ([]Quote, error) {
	now := p.now()
	origin, distanceKm := p.nearestAvailableOrigin(req)
	if origin == nil {
		return nil, nil
	}
	tier := p.matchTier(distanceKm)
	if tier == nil {
		return nil, nil
	}

	price := tier.PriceKRW
	if tier.FreeAfterAmountKRW != nil && req.OrderTotalKRW >= *tier.FreeAfterAmountKRW {
		price = 0
	}

	return []Quote{{
		QuoteID:      NewQuoteID(p.config.ProviderID, now),
		ProviderID:   p.config.ProviderID,
		ProviderName: p.config.Name,
		ProviderType: enums.ProviderTypeDistance,
		PriceKRW:     price,
		Currency:     enums.CurrencyKRW,
		EtaMinutes:   tier.EtaMinutes,
		ValidUntil:   now.Add(p.ttl),
		Metadata: map[string]any{
			"originId":   origin.OriginID,
			"distanceKm": distanceKm,
			"tierId":     tier.TierID,
		},
	}}, nil
}

// nearestAvailableOrigin filters origins by activity, spare capacity and
// operating hours at the scheduled time, then picks the closest survivor.
func (p *DistanceProvider) nearestAvailableOrigin(req Request) (*models.DeliveryOrigin, float64) {
	at := req.ScheduledOrNow(p.now())

	var best *models.DeliveryOrigin
	bestKm := 0.0
	for i := range p.origins {
		origin := &p.origins[i]
		if !origin.IsActive || origin.CurrentLoad >= origin.MaxCapacity {
			continue
		}
		if !originOpenAt(origin, at) {
			continue
		}
		d := geo.HaversineKm(origin.Lat, origin.Lng, req.Destination.Lat, req.Destination.Lng)
		if best == nil || d < bestKm {
			best = origin
			bestKm = d
		}
	}
	return best, bestKm
}

func (p *DistanceProvider) matchTier(distanceKm float64) *models.DistanceTier {
	for i := range p.tiers {
		tier := &p.tiers[i]
		if distanceKm >= tier.MinKm && distanceKm < tier.MaxKm {
			return tier
		}
	}
	return nil
}

func originOpenAt(origin *models.DeliveryOrigin, at time.Time) bool {
	if origin.OperatingHours == nil {
		return true
	}
	window, ok := (*origin.OperatingHours)[int(at.Weekday())]
	if !ok {
		return false
	}
	open, err := geo.WithinOperatingHours(window.Open, window.Close, at)
	if err != nil {
		return false
	}
	return open
}
