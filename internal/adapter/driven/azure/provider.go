package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// QueryAPI é o subconjunto do QueryClient de Cost Management usado aqui.
type QueryAPI interface {
	Usage(ctx context.Context, scope string, parameters armcostmanagement.QueryDefinition, options *armcostmanagement.QueryClientUsageOptions) (armcostmanagement.QueryClientUsageResponse, error)
	NextPage(ctx context.Context, nextLink string, parameters armcostmanagement.QueryDefinition) (armcostmanagement.QueryResult, error)
}

// Provider implementa repository.CloudProvider para uma assinatura Azure.
// Só o faturamento é suportado; inventário e métricas retornam erro.
type Provider struct {
	cfg   *Config
	query QueryAPI
}

// NewProvider creates a Provider over an existing query client.
func NewProvider(cfg *Config, query QueryAPI) *Provider {
	return &Provider{cfg: cfg, query: query}
}

// Name returns entity.ProviderAzure.
func (p *Provider) Name() entity.Provider {
	return entity.ProviderAzure
}

// DiscoverResources is not available for Azure.
func (p *Provider) DiscoverResources(ctx context.Context) (entity.Outcome[[]entity.ResourceDescriptor], error) {
	return entity.Outcome[[]entity.ResourceDescriptor]{}, types.ErrInventoryUnavailable
}

// DescribeResource is not available for Azure.
func (p *Provider) DescribeResource(ctx context.Context, ref entity.ResourceRef) (entity.ResourceDescriptor, error) {
	return entity.ResourceDescriptor{}, types.ErrInventoryUnavailable
}

// MetricSpecs returns no specs; Azure metrics are not collected.
func (p *Provider) MetricSpecs(desc entity.ResourceDescriptor) []entity.MetricSpec {
	return nil
}

// FetchDatapoints is not supported for Azure.
func (p *Provider) FetchDatapoints(ctx context.Context, spec entity.MetricSpec, region string, window entity.TimeWindow, freq entity.Frequency) ([]entity.Datapoint, error) {
	return nil, types.ErrMetricsNotSupported
}

// GetBudgets returns no budgets.
func (p *Provider) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	return nil, nil
}

// GetAccountID returns the subscription id.
func (p *Provider) GetAccountID(ctx context.Context) (string, error) {
	return p.cfg.SubscriptionID, nil
}

// Factory abre um Provider Azure por requisição, lendo o perfil do ~/.azure/config.
type Factory struct {
	configPath     string
	defaultProfile string
}

// NewFactory creates the Azure provider factory.
func NewFactory(cfg types.AzureConfig) *Factory {
	return &Factory{configPath: cfg.ConfigPath, defaultProfile: cfg.Profile}
}

// Open implements repository.ProviderFactory. creds.Profile escolhe a seção do
// arquivo; sem ela, usa o perfil padrão configurado.
func (f *Factory) Open(ctx context.Context, provider entity.Provider, creds entity.Credentials) (repository.CloudProvider, error) {
	if provider != entity.ProviderAzure {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedProvider, provider)
	}

	cfg, err := LoadConfig(f.configPath, creds.Profile, f.defaultProfile)
	if err != nil {
		return nil, err
	}
	if creds.Profile != "" && cfg.Profile != creds.Profile {
		zerolog.Ctx(ctx).Debug().Str("requested", creds.Profile).Str("profile", cfg.Profile).Msg("azure profile not found, using default")
	}

	cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{TenantID: cfg.TenantID})
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure CLI credential: %w", err)
	}
	query, err := newQueryClient(cred)
	if err != nil {
		return nil, err
	}
	return NewProvider(cfg, query), nil
}

var _ repository.CloudProvider = (*Provider)(nil)
var _ repository.ProviderFactory = (*Factory)(nil)
