package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/diillson/cloud-insights-reports/internal/application/analysis"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

const (
	pdfContentType   = "application/pdf"
	accountIDUnknown = "N/A"
)

// UtilizationRequest são os parâmetros de um relatório de utilização.
type UtilizationRequest struct {
	AccountName  string
	Provider     entity.Provider
	ResourceRefs []string
	Frequency    entity.Frequency
}

// BillingRequest são os parâmetros de um relatório de faturamento.
type BillingRequest struct {
	AccountName string
	Provider    entity.Provider
	Month       int
	Year        int
	Frequency   entity.Frequency
}

// ReportUseCase orquestra a coleta, a análise e a montagem dos relatórios.
// Nenhum estado é compartilhado entre requisições: o provedor é aberto a cada
// chamada com as credenciais resolvidas.
type ReportUseCase struct {
	resolver  repository.CredentialResolver
	providers repository.ProviderFactory
	renderer  repository.ReportRenderer
	sink      repository.ArtifactSink
	cfg       types.ReportConfig

	now   func() time.Time
	newID func() string
}

// NewReportUseCase creates a new report use case. sink may be nil, in which
// case generated reports are only returned to the caller.
func NewReportUseCase(
	resolver repository.CredentialResolver,
	providers repository.ProviderFactory,
	renderer repository.ReportRenderer,
	sink repository.ArtifactSink,
	cfg types.ReportConfig,
) *ReportUseCase {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = types.DefaultConfig().Report.Concurrency
	}
	if cfg.WeeklyResourceCap <= 0 {
		cfg.WeeklyResourceCap = types.DefaultConfig().Report.WeeklyResourceCap
	}
	return &ReportUseCase{
		resolver:  resolver,
		providers: providers,
		renderer:  renderer,
		sink:      sink,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ListClients returns the clients registered in the credential store.
func (uc *ReportUseCase) ListClients(ctx context.Context) ([]entity.Client, error) {
	return uc.resolver.ListClients(ctx)
}

// DiscoverResources lista os recursos da conta para a etapa de seleção.
func (uc *ReportUseCase) DiscoverResources(ctx context.Context, provider entity.Provider, accountName string) (entity.Outcome[[]entity.ResourceDescriptor], error) {
	p, err := uc.open(ctx, provider, accountName)
	if err != nil {
		return entity.Outcome[[]entity.ResourceDescriptor]{}, err
	}
	out, err := p.DiscoverResources(ctx)
	if err != nil {
		return entity.Outcome[[]entity.ResourceDescriptor]{}, fmt.Errorf("error discovering resources for %s: %w", accountName, err)
	}
	if out.Degraded {
		zerolog.Ctx(ctx).Warn().Strs("reasons", out.Reasons).Str("client", accountName).Msg("resource discovery used a fallback")
	}
	return out, nil
}

// GenerateUtilizationReport coleta as métricas dos recursos pedidos e monta o PDF.
func (uc *ReportUseCase) GenerateUtilizationReport(ctx context.Context, req UtilizationRequest) (*entity.GeneratedReport, error) {
	log := zerolog.Ctx(ctx)

	if strings.TrimSpace(req.AccountName) == "" {
		return nil, types.ErrMissingClientName
	}
	if len(req.ResourceRefs) == 0 {
		return nil, types.ErrNoResources
	}
	freq := req.Frequency
	if freq == "" {
		freq = entity.FrequencyDaily
	}
	if freq != entity.FrequencyDaily && freq != entity.FrequencyWeekly {
		return nil, fmt.Errorf("%w: %s is not available for utilization reports", types.ErrUnsupportedFrequency, freq)
	}

	var notices []string
	refs := make([]entity.ResourceRef, 0, len(req.ResourceRefs))
	for _, raw := range req.ResourceRefs {
		out, err := entity.ParseResourceRef(raw)
		if err != nil {
			return nil, err
		}
		if out.Degraded {
			log.Warn().Strs("reasons", out.Reasons).Msg("resource reference parsed with defaults")
			notices = append(notices, out.Reasons...)
		}
		refs = append(refs, out.Value)
	}

	requested := len(refs)
	refs, truncated := ApplyWeeklyCap(refs, freq, uc.cfg.WeeklyResourceCap)
	if truncated {
		msg := fmt.Sprintf("Weekly reports are limited to %d resources: %d were requested and only the first %d were processed.",
			uc.cfg.WeeklyResourceCap, requested, len(refs))
		log.Warn().Int("requested", requested).Int("processed", len(refs)).Msg("weekly resource list truncated")
		notices = append(notices, msg)
	}

	p, err := uc.open(ctx, req.Provider, req.AccountName)
	if err != nil {
		return nil, err
	}

	generatedAt := uc.now()
	resources, err := uc.collect(ctx, p, refs, freq.Window(generatedAt), freq)
	if err != nil {
		return nil, err
	}

	rc := entity.ReportContext{
		AccountName: req.AccountName,
		AccountID:   uc.accountID(ctx, p),
		Provider:    p.Name(),
		Type:        entity.ReportUtilization,
		Frequency:   freq,
		GeneratedAt: generatedAt,
		Resources:   resources,
		Notices:     notices,
	}
	data, err := uc.renderer.RenderUtilization(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("error rendering utilization report: %w", err)
	}

	report := &entity.GeneratedReport{
		ID:          uc.newID(),
		Filename:    entity.UtilizationFilename(req.AccountName, generatedAt),
		ContentType: pdfContentType,
		Type:        entity.ReportUtilization,
		Data:        data,
		Notices:     notices,
		Truncated:   truncated,
		Requested:   requested,
		Processed:   len(refs),
	}
	return uc.store(ctx, report)
}

// ApplyWeeklyCap trunca a lista de recursos de relatórios semanais, mantendo a
// ordem do prefixo retido.
func ApplyWeeklyCap(refs []entity.ResourceRef, freq entity.Frequency, limit int) ([]entity.ResourceRef, bool) {
	if freq != entity.FrequencyWeekly || limit <= 0 || len(refs) <= limit {
		return refs, false
	}
	return refs[:limit], true
}

// collect busca as métricas de todos os recursos em paralelo. Cada resultado
// vai para o índice do recurso, então a ordem do relatório segue a do pedido.
// Um único semáforo limita as chamadas ao provedor em cfg.Concurrency, somando
// descrições e consultas de métricas de todos os recursos.
func (uc *ReportUseCase) collect(ctx context.Context, p repository.CloudProvider, refs []entity.ResourceRef, window entity.TimeWindow, freq entity.Frequency) ([]entity.ResourceMetrics, error) {
	resources := make([]entity.ResourceMetrics, len(refs))
	sem := semaphore.NewWeighted(int64(uc.cfg.Concurrency))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			res, err := uc.collectResource(gctx, p, sem, ref, window, freq)
			if err != nil {
				return err
			}
			resources[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resources, nil
}

func (uc *ReportUseCase) collectResource(ctx context.Context, p repository.CloudProvider, sem *semaphore.Weighted, ref entity.ResourceRef, window entity.TimeWindow, freq entity.Frequency) (entity.ResourceMetrics, error) {
	log := zerolog.Ctx(ctx).With().Str("resource", ref.String()).Logger()

	if err := sem.Acquire(ctx, 1); err != nil {
		return entity.ResourceMetrics{}, err
	}
	desc, err := p.DescribeResource(ctx, ref)
	sem.Release(1)
	if err != nil {
		log.Warn().Err(err).Msg("could not describe resource, using the reference only")
		desc = minimalDescriptor(ref)
	}
	res := entity.ResourceMetrics{Descriptor: desc}
	if desc.IsStopped() {
		return res, nil
	}

	specs := p.MetricSpecs(desc)
	res.Metrics = make([]entity.MetricResult, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			points, err := p.FetchDatapoints(gctx, spec, desc.Region, window, freq)
			sem.Release(1)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn().Err(err).Str("metric", spec.Key).Msg("metric fetch failed, section left empty")
			}
			res.Metrics[i] = entity.MetricResult{Spec: spec, Series: analysis.Normalize(points, spec)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.ResourceMetrics{}, err
	}
	return res, nil
}

func minimalDescriptor(ref entity.ResourceRef) entity.ResourceDescriptor {
	return entity.ResourceDescriptor{
		ID:          ref.ID,
		Name:        ref.ID,
		Type:        "unknown",
		State:       "unknown",
		Region:      ref.Region,
		ServiceType: ref.ServiceType,
	}
}

// GenerateBillingReport consulta o custo do mês e monta o PDF de faturamento.
func (uc *ReportUseCase) GenerateBillingReport(ctx context.Context, req BillingRequest) (*entity.GeneratedReport, error) {
	if strings.TrimSpace(req.AccountName) == "" {
		return nil, types.ErrMissingClientName
	}
	period, err := entity.NewBillingPeriod(req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	freq := billingFrequency(req.Frequency)

	p, err := uc.open(ctx, req.Provider, req.AccountName)
	if err != nil {
		return nil, err
	}

	breakdown, err := p.GetCostBreakdown(ctx, period, freq)
	if err != nil {
		return nil, fmt.Errorf("error fetching costs for %s: %w", req.AccountName, err)
	}
	budgets, err := p.GetBudgets(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("could not load budgets")
		budgets = nil
	}

	generatedAt := uc.now()
	rc := entity.ReportContext{
		AccountName: req.AccountName,
		AccountID:   uc.accountID(ctx, p),
		Provider:    p.Name(),
		Type:        entity.ReportBilling,
		Frequency:   freq,
		GeneratedAt: generatedAt,
		Billing:     &breakdown,
		Budgets:     budgets,
	}
	data, err := uc.renderer.RenderBilling(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("error rendering billing report: %w", err)
	}

	report := &entity.GeneratedReport{
		ID:          uc.newID(),
		Filename:    entity.BillingFilename(req.AccountName, req.Month, req.Year),
		ContentType: pdfContentType,
		Type:        entity.ReportBilling,
		Data:        data,
	}
	return uc.store(ctx, report)
}

// PreviewBilling returns the cost breakdown for explicit credentials without
// rendering a document.
func (uc *ReportUseCase) PreviewBilling(ctx context.Context, provider entity.Provider, creds entity.Credentials, month, year int, freq entity.Frequency) (entity.CostBreakdown, error) {
	period, err := entity.NewBillingPeriod(month, year)
	if err != nil {
		return entity.CostBreakdown{}, err
	}
	p, err := uc.providers.Open(ctx, provider, creds)
	if err != nil {
		return entity.CostBreakdown{}, err
	}
	return p.GetCostBreakdown(ctx, period, billingFrequency(freq))
}

// PreviewClientBilling resolve as credenciais do cliente e chama PreviewBilling.
func (uc *ReportUseCase) PreviewClientBilling(ctx context.Context, req BillingRequest) (entity.CostBreakdown, error) {
	creds, err := uc.credentials(ctx, req.Provider, req.AccountName)
	if err != nil {
		return entity.CostBreakdown{}, err
	}
	return uc.PreviewBilling(ctx, req.Provider, creds, req.Month, req.Year, req.Frequency)
}

func billingFrequency(freq entity.Frequency) entity.Frequency {
	if freq == entity.FrequencyDaily {
		return entity.FrequencyDaily
	}
	return entity.FrequencyMonthly
}

// credentials resolve as credenciais da requisição. No Azure o nome do cliente
// seleciona o perfil do ~/.azure/config; na AWS vem do repositório de credenciais.
func (uc *ReportUseCase) credentials(ctx context.Context, provider entity.Provider, accountName string) (entity.Credentials, error) {
	accountName = strings.TrimSpace(accountName)
	if accountName == "" {
		return entity.Credentials{}, types.ErrMissingClientName
	}
	switch provider {
	case entity.ProviderAzure:
		return entity.Credentials{Profile: accountName}, nil
	case entity.ProviderAWS:
		creds, err := uc.resolver.Resolve(ctx, accountName)
		if err != nil {
			return entity.Credentials{}, err
		}
		return creds, nil
	}
	return entity.Credentials{}, fmt.Errorf("%w: %q", types.ErrUnsupportedProvider, provider)
}

func (uc *ReportUseCase) open(ctx context.Context, provider entity.Provider, accountName string) (repository.CloudProvider, error) {
	creds, err := uc.credentials(ctx, provider, accountName)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("client", accountName).Str("provider", string(provider)).Stringer("credentials", creds).Msg("opening provider")
	return uc.providers.Open(ctx, provider, creds)
}

func (uc *ReportUseCase) accountID(ctx context.Context, p repository.CloudProvider) string {
	id, err := p.GetAccountID(ctx)
	if err != nil || id == "" {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("could not resolve account id")
		return accountIDUnknown
	}
	return id
}

func (uc *ReportUseCase) store(ctx context.Context, report *entity.GeneratedReport) (*entity.GeneratedReport, error) {
	if uc.sink == nil {
		return report, nil
	}
	location, err := uc.sink.Store(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("error storing report %s: %w", report.Filename, err)
	}
	report.Location = location
	zerolog.Ctx(ctx).Info().Str("report_id", report.ID).Str("location", location).Msg("report stored")
	return report, nil
}
