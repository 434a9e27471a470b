// Package aws implementa o provedor AWS: inventário, métricas do CloudWatch,
// custos do Cost Explorer, budgets, identidade da conta e o resolvedor de
// credenciais no SSM.
package aws

import (
	"context"
	"fmt"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// Provider implementa repository.CloudProvider para uma requisição.
type Provider struct {
	clients Clients
	opts    Options
}

// NewProvider creates a Provider on top of an existing client set.
func NewProvider(clients Clients, opts Options) *Provider {
	return &Provider{clients: clients, opts: opts.withDefaults()}
}

// Name returns entity.ProviderAWS.
func (p *Provider) Name() entity.Provider {
	return entity.ProviderAWS
}

// Factory abre um Provider novo por requisição a partir das credenciais resolvidas.
type Factory struct {
	opts Options
}

// NewFactory creates the AWS provider factory.
func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts.withDefaults()}
}

// OptionsFromConfig maps the application config to adapter options.
func OptionsFromConfig(cfg *types.Config) Options {
	return Options{
		FallbackRegions: cfg.AWS.FallbackRegions,
		ConnectTimeout:  types.Seconds(cfg.AWS.ConnectTimeoutSec),
		ReadTimeout:     types.Seconds(cfg.AWS.ReadTimeoutSec),
		MetricTimeout:   types.Seconds(cfg.AWS.MetricTimeoutSec),
		MaxAttempts:     cfg.AWS.MaxAttempts,
		Concurrency:     cfg.Report.Concurrency,
	}
}

// Open implements repository.ProviderFactory.
func (f *Factory) Open(ctx context.Context, provider entity.Provider, creds entity.Credentials) (repository.CloudProvider, error) {
	if provider != entity.ProviderAWS {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedProvider, provider)
	}
	cfg, err := LoadConfig(ctx, creds, f.opts)
	if err != nil {
		return nil, err
	}
	return NewProvider(NewClients(cfg), f.opts), nil
}

var _ repository.CloudProvider = (*Provider)(nil)
var _ repository.ProviderFactory = (*Factory)(nil)
