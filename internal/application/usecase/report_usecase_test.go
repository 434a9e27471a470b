package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, clientID string) (entity.Credentials, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(entity.Credentials), args.Error(1)
}

func (m *mockResolver) ListClients(ctx context.Context) ([]entity.Client, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]entity.Client)
	return out, args.Error(1)
}

// fakeProvider devolve descritores e datapoints fixos e registra as chamadas.
type fakeProvider struct {
	mu          sync.Mutex
	descriptors map[string]entity.ResourceDescriptor
	points      map[string][]entity.Datapoint
	failMetric  string
	fetched     []string
	accountErr  error
	costs       entity.CostBreakdown
	costErr     error
	budgets     []entity.BudgetInfo
	budgetErr   error
	costPeriod  entity.BillingPeriod
	costFreq    entity.Frequency

	delay       time.Duration
	inFlight    int
	maxInFlight int
}

// enter conta as chamadas simultâneas ao provedor.
func (f *fakeProvider) enter() func() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}
}

func (f *fakeProvider) Name() entity.Provider { return entity.ProviderAWS }

func (f *fakeProvider) DiscoverResources(ctx context.Context) (entity.Outcome[[]entity.ResourceDescriptor], error) {
	var list []entity.ResourceDescriptor
	for _, d := range f.descriptors {
		list = append(list, d)
	}
	return entity.Fallback(list, "regions fallback"), nil
}

func (f *fakeProvider) DescribeResource(ctx context.Context, ref entity.ResourceRef) (entity.ResourceDescriptor, error) {
	defer f.enter()()
	d, ok := f.descriptors[ref.ID]
	if !ok {
		return entity.ResourceDescriptor{}, errors.New("not found")
	}
	return d, nil
}

func (f *fakeProvider) MetricSpecs(desc entity.ResourceDescriptor) []entity.MetricSpec {
	return []entity.MetricSpec{
		{Kind: entity.MetricCPU, Key: desc.ID + "/cpu", SourceUnit: entity.UnitPercent, DisplayUnit: entity.UnitPercent},
		{Kind: entity.MetricMemory, Key: desc.ID + "/memory", SourceUnit: entity.UnitPercent, DisplayUnit: entity.UnitPercent},
	}
}

func (f *fakeProvider) FetchDatapoints(ctx context.Context, spec entity.MetricSpec, region string, window entity.TimeWindow, freq entity.Frequency) ([]entity.Datapoint, error) {
	defer f.enter()()
	f.mu.Lock()
	f.fetched = append(f.fetched, spec.Key)
	f.mu.Unlock()
	if spec.Key == f.failMetric {
		return nil, errors.New("throttled")
	}
	return f.points[spec.Key], nil
}

func (f *fakeProvider) GetCostBreakdown(ctx context.Context, period entity.BillingPeriod, freq entity.Frequency) (entity.CostBreakdown, error) {
	f.costPeriod, f.costFreq = period, freq
	return f.costs, f.costErr
}

func (f *fakeProvider) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	return f.budgets, f.budgetErr
}

func (f *fakeProvider) GetAccountID(ctx context.Context) (string, error) {
	if f.accountErr != nil {
		return "", f.accountErr
	}
	return "123456789012", nil
}

type fakeFactory struct {
	provider *fakeProvider
	creds    []entity.Credentials
}

func (f *fakeFactory) Open(ctx context.Context, provider entity.Provider, creds entity.Credentials) (repository.CloudProvider, error) {
	f.creds = append(f.creds, creds)
	return f.provider, nil
}

type captureRenderer struct {
	rc entity.ReportContext
}

func (r *captureRenderer) RenderUtilization(ctx context.Context, rc entity.ReportContext) ([]byte, error) {
	r.rc = rc
	return []byte("%PDF-utilization"), nil
}

func (r *captureRenderer) RenderBilling(ctx context.Context, rc entity.ReportContext) ([]byte, error) {
	r.rc = rc
	return []byte("%PDF-billing"), nil
}

type memorySink struct {
	stored []*entity.GeneratedReport
}

func (s *memorySink) Store(ctx context.Context, report *entity.GeneratedReport) (string, error) {
	s.stored = append(s.stored, report)
	return "mem://" + report.Filename, nil
}

var fixedNow = time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC)

func newTestUseCase(p *fakeProvider, cfg types.ReportConfig) (*ReportUseCase, *mockResolver, *fakeFactory, *captureRenderer, *memorySink) {
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, "acme").Return(entity.Credentials{AccessKey: "AKIA1234", SecretKey: "s", Region: "us-east-1"}, nil)
	resolver.On("Resolve", mock.Anything, "ghost").Return(entity.Credentials{}, types.ErrClientNotFound)

	factory := &fakeFactory{provider: p}
	renderer := &captureRenderer{}
	sink := &memorySink{}
	uc := NewReportUseCase(resolver, factory, renderer, sink, cfg)
	uc.now = func() time.Time { return fixedNow }
	uc.newID = func() string { return "report-1" }
	return uc, resolver, factory, renderer, sink
}

func points(values ...float64) []entity.Datapoint {
	out := make([]entity.Datapoint, len(values))
	for i, v := range values {
		out[i] = entity.Datapoint{Timestamp: fixedNow.Add(-time.Duration(len(values)-i) * time.Hour), Value: v}
	}
	return out
}

func TestApplyWeeklyCap(t *testing.T) {
	refs := make([]entity.ResourceRef, 8)
	for i := range refs {
		refs[i] = entity.ResourceRef{ServiceType: entity.ServiceEC2, ID: fmt.Sprintf("i-%d", i), Region: "us-east-1"}
	}

	tests := []struct {
		name      string
		freq      entity.Frequency
		limit     int
		wantLen   int
		truncated bool
	}{
		{"weekly over cap", entity.FrequencyWeekly, 5, 5, true},
		{"weekly at cap", entity.FrequencyWeekly, 8, 8, false},
		{"daily ignores cap", entity.FrequencyDaily, 5, 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := ApplyWeeklyCap(refs, tt.freq, tt.limit)
			assert.Equal(t, tt.truncated, truncated)
			require.Len(t, got, tt.wantLen)
			for i := range got {
				assert.Equal(t, refs[i], got[i])
			}
		})
	}
}

func TestGenerateUtilizationReport_ConcurrencyBound(t *testing.T) {
	p := &fakeProvider{descriptors: map[string]entity.ResourceDescriptor{}, delay: 5 * time.Millisecond}
	var refs []string
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("i-%d", i)
		p.descriptors[id] = entity.ResourceDescriptor{ID: id, Name: id, State: "running", Region: "us-east-1", ServiceType: entity.ServiceEC2}
		refs = append(refs, "EC2|"+id+"|us-east-1")
	}
	uc, _, _, renderer, _ := newTestUseCase(p, types.ReportConfig{Concurrency: 2})

	_, err := uc.GenerateUtilizationReport(context.Background(), UtilizationRequest{
		AccountName: "acme", Provider: entity.ProviderAWS, ResourceRefs: refs,
	})
	require.NoError(t, err)
	assert.Len(t, p.fetched, 12)
	assert.LessOrEqual(t, p.maxInFlight, 2)
	require.Len(t, renderer.rc.Resources, 6)
	assert.Equal(t, "i-0", renderer.rc.Resources[0].Descriptor.ID)
	assert.Equal(t, "i-5", renderer.rc.Resources[5].Descriptor.ID)
}

func TestGenerateUtilizationReport_RunningAndStopped(t *testing.T) {
	p := &fakeProvider{
		descriptors: map[string]entity.ResourceDescriptor{
			"i-running": {ID: "i-running", Name: "web", State: "running", Region: "us-east-1", ServiceType: entity.ServiceEC2},
			"i-stopped": {ID: "i-stopped", Name: "batch", State: "stopped", Region: "us-east-1", ServiceType: entity.ServiceEC2},
		},
		points: map[string][]entity.Datapoint{
			"i-running/cpu":    points(30, 10, 20),
			"i-running/memory": points(55),
		},
	}
	uc, _, factory, renderer, sink := newTestUseCase(p, types.ReportConfig{})

	report, err := uc.GenerateUtilizationReport(context.Background(), UtilizationRequest{
		AccountName:  "acme",
		Provider:     entity.ProviderAWS,
		ResourceRefs: []string{"EC2|i-running|us-east-1", "EC2|i-stopped|us-east-1"},
		Frequency:    entity.FrequencyDaily,
	})
	require.NoError(t, err)

	assert.Equal(t, "acme-2025-07-09-utilization-report.pdf", report.Filename)
	assert.Equal(t, "report-1", report.ID)
	assert.Equal(t, "mem://acme-2025-07-09-utilization-report.pdf", report.Location)
	assert.False(t, report.Truncated)
	require.Len(t, sink.stored, 1)
	assert.Equal(t, "AKIA1234", factory.creds[0].AccessKey)

	rc := renderer.rc
	assert.Equal(t, "123456789012", rc.AccountID)
	require.Len(t, rc.Resources, 2)
	assert.Equal(t, "i-running", rc.Resources[0].Descriptor.ID)
	require.Len(t, rc.Resources[0].Metrics, 2)
	cpu := rc.Resources[0].Metrics[0].Series
	assert.InDelta(t, 20.0, cpu.Average, 1e-9)
	assert.Equal(t, 10.0, cpu.Min)
	assert.Equal(t, "i-stopped", rc.Resources[1].Descriptor.ID)
	assert.Empty(t, rc.Resources[1].Metrics)
	assert.NotContains(t, p.fetched, "i-stopped/cpu")
}

func TestGenerateUtilizationReport_WeeklyTruncation(t *testing.T) {
	p := &fakeProvider{descriptors: map[string]entity.ResourceDescriptor{}}
	refs := make([]string, 7)
	for i := range refs {
		id := fmt.Sprintf("i-%d", i)
		refs[i] = "EC2|" + id + "|us-east-1"
		p.descriptors[id] = entity.ResourceDescriptor{ID: id, State: "running", Region: "us-east-1", ServiceType: entity.ServiceEC2}
	}
	uc, _, _, renderer, _ := newTestUseCase(p, types.ReportConfig{WeeklyResourceCap: 5})

	report, err := uc.GenerateUtilizationReport(context.Background(), UtilizationRequest{
		AccountName: "acme", Provider: entity.ProviderAWS, ResourceRefs: refs, Frequency: entity.FrequencyWeekly,
	})
	require.NoError(t, err)

	assert.True(t, report.Truncated)
	assert.Equal(t, 7, report.Requested)
	assert.Equal(t, 5, report.Processed)
	require.Len(t, renderer.rc.Resources, 5)
	for i, res := range renderer.rc.Resources {
		assert.Equal(t, fmt.Sprintf("i-%d", i), res.Descriptor.ID)
	}
	assert.Len(t, p.fetched, 10)
	require.Len(t, report.Notices, 1)
	assert.Contains(t, report.Notices[0], "limited to 5 resources")
}

func TestGenerateUtilizationReport_Degradations(t *testing.T) {
	p := &fakeProvider{
		descriptors: map[string]entity.ResourceDescriptor{},
		points:      map[string][]entity.Datapoint{"i-0abc123/memory": points(70)},
		failMetric:  "i-0abc123/cpu",
		accountErr:  errors.New("sts denied"),
	}
	uc, _, _, renderer, _ := newTestUseCase(p, types.ReportConfig{})

	report, err := uc.GenerateUtilizationReport(context.Background(), UtilizationRequest{
		AccountName: "acme", Provider: entity.ProviderAWS, ResourceRefs: []string{"i-0abc123"},
	})
	require.NoError(t, err)

	rc := renderer.rc
	assert.Equal(t, "N/A", rc.AccountID)
	assert.Equal(t, entity.FrequencyDaily, rc.Frequency)
	require.Len(t, rc.Resources, 1)
	res := rc.Resources[0]
	assert.Equal(t, entity.ServiceEC2, res.Descriptor.ServiceType)
	assert.Equal(t, "us-east-1", res.Descriptor.Region)
	require.Len(t, res.Metrics, 2)
	assert.True(t, res.Metrics[0].Series.IsEmpty())
	assert.False(t, res.Metrics[1].Series.IsEmpty())
	assert.Len(t, report.Notices, 1)
}

func TestGenerateUtilizationReport_RequestErrors(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase(&fakeProvider{}, types.ReportConfig{})
	ctx := context.Background()

	_, err := uc.GenerateUtilizationReport(ctx, UtilizationRequest{AccountName: "acme", Provider: entity.ProviderAWS})
	assert.ErrorIs(t, err, types.ErrNoResources)

	_, err = uc.GenerateUtilizationReport(ctx, UtilizationRequest{AccountName: "acme", Provider: entity.ProviderAWS, ResourceRefs: []string{"a|b"}})
	assert.ErrorIs(t, err, types.ErrMalformedReference)

	_, err = uc.GenerateUtilizationReport(ctx, UtilizationRequest{AccountName: "", ResourceRefs: []string{"i-1"}})
	assert.ErrorIs(t, err, types.ErrMissingClientName)

	_, err = uc.GenerateUtilizationReport(ctx, UtilizationRequest{AccountName: "ghost", Provider: entity.ProviderAWS, ResourceRefs: []string{"i-1"}})
	assert.ErrorIs(t, err, types.ErrClientNotFound)

	_, err = uc.GenerateUtilizationReport(ctx, UtilizationRequest{AccountName: "acme", Provider: entity.ProviderAWS, ResourceRefs: []string{"i-1"}, Frequency: entity.FrequencyMonthly})
	assert.ErrorIs(t, err, types.ErrUnsupportedFrequency)
}

func TestGenerateBillingReport(t *testing.T) {
	period, _ := entity.NewBillingPeriod(7, 2025)
	p := &fakeProvider{
		costs: entity.CostBreakdown{
			Services:      []entity.ServiceCost{{ServiceName: "EC2", Amount: 120.50}, {ServiceName: "Tax", Amount: 9.64}},
			TotalCost:     130.14,
			BillingPeriod: period.Label(),
			Currency:      "USD",
		},
		budgetErr: errors.New("budgets denied"),
	}
	uc, _, _, renderer, _ := newTestUseCase(p, types.ReportConfig{})

	report, err := uc.GenerateBillingReport(context.Background(), BillingRequest{
		AccountName: "acme", Provider: entity.ProviderAWS, Month: 7, Year: 2025,
	})
	require.NoError(t, err)

	assert.Equal(t, "acme-07-2025-billing-report.pdf", report.Filename)
	assert.Equal(t, entity.FrequencyMonthly, p.costFreq)
	assert.Equal(t, period.Start, p.costPeriod.Start)
	require.NotNil(t, renderer.rc.Billing)
	assert.InDelta(t, 130.14, renderer.rc.Billing.TotalCost, 1e-9)
	assert.Nil(t, renderer.rc.Budgets)
	assert.Equal(t, entity.ReportBilling, renderer.rc.Type)
}

func TestGenerateBillingReport_Failures(t *testing.T) {
	p := &fakeProvider{costErr: types.ErrBillingUnavailable}
	uc, _, _, _, sink := newTestUseCase(p, types.ReportConfig{})

	_, err := uc.GenerateBillingReport(context.Background(), BillingRequest{AccountName: "acme", Provider: entity.ProviderAWS, Month: 7, Year: 2025})
	assert.ErrorIs(t, err, types.ErrBillingUnavailable)
	assert.Empty(t, sink.stored)

	_, err = uc.GenerateBillingReport(context.Background(), BillingRequest{AccountName: "acme", Provider: entity.ProviderAWS, Month: 13, Year: 2025})
	assert.ErrorIs(t, err, types.ErrInvalidBillingPeriod)
}

func TestPreviewClientBilling(t *testing.T) {
	p := &fakeProvider{costs: entity.CostBreakdown{TotalCost: 5}}
	uc, resolver, factory, _, _ := newTestUseCase(p, types.ReportConfig{})

	b, err := uc.PreviewClientBilling(context.Background(), BillingRequest{
		AccountName: "acme", Provider: entity.ProviderAWS, Month: 12, Year: 2025, Frequency: entity.FrequencyDaily,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, b.TotalCost)
	assert.Equal(t, entity.FrequencyDaily, p.costFreq)
	assert.Equal(t, 2026, p.costPeriod.End.Year())
	resolver.AssertCalled(t, "Resolve", mock.Anything, "acme")

	_, err = uc.PreviewClientBilling(context.Background(), BillingRequest{AccountName: "acme", Provider: entity.ProviderAzure, Month: 1, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "acme", factory.creds[len(factory.creds)-1].Profile)
}

func TestDiscoverResourcesAndClients(t *testing.T) {
	p := &fakeProvider{descriptors: map[string]entity.ResourceDescriptor{"i-1": {ID: "i-1"}}}
	uc, resolver, _, _, _ := newTestUseCase(p, types.ReportConfig{})
	resolver.On("ListClients", mock.Anything).Return([]entity.Client{{ID: "acme", Name: "Acme"}}, nil)

	out, err := uc.DiscoverResources(context.Background(), entity.ProviderAWS, "acme")
	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Len(t, out.Value, 1)

	clients, err := uc.ListClients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme", clients[0].ID)
}
