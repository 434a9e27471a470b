// Package cloud despacha a abertura de provedores para a fábrica de cada nuvem.
package cloud

import (
	"context"
	"fmt"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// Registry implementa repository.ProviderFactory sobre várias fábricas.
type Registry struct {
	factories map[entity.Provider]repository.ProviderFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[entity.Provider]repository.ProviderFactory)}
}

// Register associates a factory with a provider and returns the registry.
func (r *Registry) Register(provider entity.Provider, factory repository.ProviderFactory) *Registry {
	r.factories[provider] = factory
	return r
}

// Supports reports whether a factory is registered for provider.
func (r *Registry) Supports(provider entity.Provider) bool {
	_, ok := r.factories[provider]
	return ok
}

// Open implements repository.ProviderFactory.
func (r *Registry) Open(ctx context.Context, provider entity.Provider, creds entity.Credentials) (repository.CloudProvider, error) {
	factory, ok := r.factories[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedProvider, provider)
	}
	return factory.Open(ctx, provider, creds)
}

var _ repository.ProviderFactory = (*Registry)(nil)
