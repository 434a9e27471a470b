package repository

import (
	"context"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// ResourceInventory enumerates the resources of one account.
type ResourceInventory interface {
	// DiscoverResources lists compute instances and managed databases in every
	// region. A region listing failure degrades to a fixed region list.
	DiscoverResources(ctx context.Context) (entity.Outcome[[]entity.ResourceDescriptor], error)
	// DescribeResource loads the identity fields of a single resource.
	DescribeResource(ctx context.Context, ref entity.ResourceRef) (entity.ResourceDescriptor, error)
}

// MetricFetcher retrieves raw datapoints from the provider's monitoring API.
type MetricFetcher interface {
	// MetricSpecs resolves the metric lookup table for the resource.
	MetricSpecs(desc entity.ResourceDescriptor) []entity.MetricSpec
	// FetchDatapoints returns the raw samples of one metric; the sampling period
	// follows the frequency.
	FetchDatapoints(ctx context.Context, spec entity.MetricSpec, region string, window entity.TimeWindow, freq entity.Frequency) ([]entity.Datapoint, error)
}

// CostAggregator returns the cost breakdown of a billing period.
type CostAggregator interface {
	GetCostBreakdown(ctx context.Context, period entity.BillingPeriod, freq entity.Frequency) (entity.CostBreakdown, error)
}

// BudgetReader lists the budgets configured for the account.
type BudgetReader interface {
	GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error)
}

// AccountIdentity resolves the provider account id of the credentials.
type AccountIdentity interface {
	GetAccountID(ctx context.Context) (string, error)
}

// CloudProvider agrupa as operações de um provedor para uma requisição.
type CloudProvider interface {
	ResourceInventory
	MetricFetcher
	CostAggregator
	BudgetReader
	AccountIdentity
	Name() entity.Provider
}

// ProviderFactory abre um CloudProvider com as credenciais de uma requisição.
type ProviderFactory interface {
	Open(ctx context.Context, provider entity.Provider, creds entity.Credentials) (CloudProvider, error)
}

// CredentialResolver resolve um cliente para as credenciais da nuvem.
type CredentialResolver interface {
	Resolve(ctx context.Context, clientID string) (entity.Credentials, error)
	ListClients(ctx context.Context) ([]entity.Client, error)
}
