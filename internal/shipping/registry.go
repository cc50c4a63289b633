package shipping

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/pkg/db/models"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	pkgerrors "github.com/mokja-app/mokja-backend/pkg/errors"
)

// Factory builds a request-scoped provider from its stored configuration.
type Factory func(config *models.ShippingProvider) (Provider, error)

// Registry instantiates providers for a restaurant's enabled configurations.
// Registration happens once at startup; Build calls are read-only and safe
// for concurrent use.
type Registry struct {
	factories map[enums.ProviderType]Factory
	repo      ConfigReader
}

// ConfigReader is the slice of the repository the registry needs.
type ConfigReader interface {
	FindEnabledProviderConfigs(ctx context.Context, restaurantID uuid.UUID) ([]models.ShippingProvider, error)
}

// NewRegistry builds an empty registry over the given config source.
func NewRegistry(repo ConfigReader) *Registry {
	return &Registry{factories: make(map[enums.ProviderType]Factory), repo: repo}
}

// Register installs the factory for one provider type.
func (r *Registry) Register(providerType enums.ProviderType, factory Factory) {
	r.factories[providerType] = factory
}

// Build instantiates a provider from one configuration. An unregistered
// provider type is a configuration error, never a silent skip.
func (r *Registry) Build(config *models.ShippingProvider) (Provider, error) {
	factory, ok := r.factories[config.Type]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("no factory registered for provider type %q", config.Type))
	}
	return factory(config)
}

// BuiltProvider pairs an instantiated provider with its stored config.
type BuiltProvider struct {
	Provider Provider
	Config   *models.ShippingProvider
}

// ProvidersFor loads the restaurant's enabled configs sorted by priority
// ascending and instantiates each one.
func (r *Registry) ProvidersFor(ctx context.Context, restaurantID uuid.UUID) ([]BuiltProvider, error) {
	configs, err := r.repo.FindEnabledProviderConfigs(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	providers := make([]BuiltProvider, 0, len(configs))
	for i := range configs {
		provider, err := r.Build(&configs[i])
		if err != nil {
			return nil, err
		}
		providers = append(providers, BuiltProvider{Provider: provider, Config: &configs[i]})
	}
	return providers, nil
}
