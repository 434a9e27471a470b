package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-insights-reports/internal/application/usecase"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

const maxBodyBytes = 1 << 20

// ReportRequest é o corpo de /api/generate-report e /api/billing-preview.
type ReportRequest struct {
	CloudProvider string   `json:"cloudProvider"`
	ClientName    string   `json:"clientName"`
	ReportType    string   `json:"reportType"`
	Resources     []string `json:"resources"`
	Frequency     string   `json:"frequency"`
	Month         int      `json:"month"`
	Year          int      `json:"year"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type clientsResponse struct {
	Success bool            `json:"success"`
	Clients []entity.Client `json:"clients"`
}

type resourcesResponse struct {
	Success   bool                        `json:"success"`
	Resources []entity.ResourceDescriptor `json:"resources"`
	Degraded  bool                        `json:"degraded"`
	Warnings  []string                    `json:"warnings,omitempty"`
}

type billingResponse struct {
	Success     bool                 `json:"success"`
	BillingData entity.CostBreakdown `json:"billingData"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// Handlers implementa as rotas da API sobre um ReportService.
type Handlers struct {
	service     ReportService
	serviceName string
	now         func() time.Time
}

// NewHandlers creates the route handlers.
func NewHandlers(service ReportService, serviceName string) *Handlers {
	return &Handlers{service: service, serviceName: serviceName, now: time.Now}
}

// Health responde o estado do serviço.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:    "healthy",
		Service:   h.serviceName,
		Timestamp: h.now().Format(time.RFC3339),
	})
}

// ListClients lista os clientes do repositório de credenciais.
func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to fetch clients: %w", err))
		return
	}
	if clients == nil {
		clients = []entity.Client{}
	}
	writeJSON(w, r, http.StatusOK, clientsResponse{Success: true, Clients: clients})
}

// DiscoverResources lista os recursos da conta do cliente.
func (h *Handlers) DiscoverResources(w http.ResponseWriter, r *http.Request) {
	req, provider, ok := h.decode(w, r)
	if !ok {
		return
	}

	out, err := h.service.DiscoverResources(r.Context(), provider, req.ClientName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resources := out.Value
	if resources == nil {
		resources = []entity.ResourceDescriptor{}
	}
	writeJSON(w, r, http.StatusOK, resourcesResponse{
		Success:   true,
		Resources: resources,
		Degraded:  out.Degraded,
		Warnings:  out.Reasons,
	})
}

// GenerateReport gera o PDF pedido e o devolve como anexo.
func (h *Handlers) GenerateReport(w http.ResponseWriter, r *http.Request) {
	req, provider, ok := h.decode(w, r)
	if !ok {
		return
	}
	reportType, err := entity.ParseReportType(req.ReportType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	freq, err := entity.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var report *entity.GeneratedReport
	switch reportType {
	case entity.ReportUtilization:
		report, err = h.service.GenerateUtilizationReport(r.Context(), usecase.UtilizationRequest{
			AccountName:  req.ClientName,
			Provider:     provider,
			ResourceRefs: req.Resources,
			Frequency:    freq,
		})
	case entity.ReportBilling:
		month, year := h.period(req)
		report, err = h.service.GenerateBillingReport(r.Context(), usecase.BillingRequest{
			AccountName: req.ClientName,
			Provider:    provider,
			Month:       month,
			Year:        year,
			Frequency:   freq,
		})
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("report_id", report.ID).Str("filename", report.Filename).Msg("report generated")

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.Header().Set("X-Report-ID", report.ID)
	if report.Truncated {
		w.Header().Set("X-Report-Truncated", fmt.Sprintf("%d/%d", report.Processed, report.Requested))
	}
	if len(report.Notices) > 0 {
		w.Header().Set("X-Report-Notices", strings.Join(report.Notices, " | "))
	}
	if report.Location != "" {
		w.Header().Set("X-Report-Location", report.Location)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write report")
	}
}

// BillingPreview devolve o breakdown de custos sem gerar o PDF.
func (h *Handlers) BillingPreview(w http.ResponseWriter, r *http.Request) {
	req, provider, ok := h.decode(w, r)
	if !ok {
		return
	}
	freq, err := entity.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Month == 0 || req.Year == 0 {
		writeError(w, r, fmt.Errorf("%w: month and year are required", types.ErrInvalidBillingPeriod))
		return
	}

	breakdown, err := h.service.PreviewClientBilling(r.Context(), usecase.BillingRequest{
		AccountName: req.ClientName,
		Provider:    provider,
		Month:       req.Month,
		Year:        req.Year,
		Frequency:   freq,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, billingResponse{Success: true, BillingData: breakdown})
}

// decode lê o corpo e valida provedor e cliente, respondendo 400 em caso de erro.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request) (ReportRequest, entity.Provider, bool) {
	var req ReportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return req, "", false
	}
	if req.CloudProvider == "" || strings.TrimSpace(req.ClientName) == "" {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "cloudProvider and clientName are required"})
		return req, "", false
	}
	provider, err := entity.ParseProvider(req.CloudProvider)
	if err != nil {
		writeError(w, r, err)
		return req, "", false
	}
	return req, provider, true
}

// period completa mês e ano ausentes com o mês e o ano correntes.
func (h *Handlers) period(req ReportRequest) (int, int) {
	month, year := req.Month, req.Year
	now := h.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

// StatusFor maps a use case error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case types.IsRequestError(err):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInventoryUnavailable), errors.Is(err, types.ErrMetricsNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, types.ErrBillingUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
