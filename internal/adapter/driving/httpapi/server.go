// Package httpapi expõe os relatórios por HTTP com chi.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-insights-reports/internal/application/usecase"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// ReportService é o que o servidor usa do caso de uso. usecase.ReportUseCase implementa.
type ReportService interface {
	ListClients(ctx context.Context) ([]entity.Client, error)
	DiscoverResources(ctx context.Context, provider entity.Provider, accountName string) (entity.Outcome[[]entity.ResourceDescriptor], error)
	GenerateUtilizationReport(ctx context.Context, req usecase.UtilizationRequest) (*entity.GeneratedReport, error)
	GenerateBillingReport(ctx context.Context, req usecase.BillingRequest) (*entity.GeneratedReport, error)
	PreviewClientBilling(ctx context.Context, req usecase.BillingRequest) (entity.CostBreakdown, error)
}

// Config configura o servidor HTTP.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	ServiceName     string
}

// Server é a API HTTP do gerador de relatórios.
type Server struct {
	router   *chi.Mux
	logger   *zerolog.Logger
	server   *http.Server
	config   Config
	handlers *Handlers
}

// NewServer monta o router com logging por requisição e recuperação de panics.
func NewServer(logger zerolog.Logger, config Config, service ReportService) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.ServiceName == "" {
		config.ServiceName = "cloud-insights"
	}
	h := NewHandlers(service, config.ServiceName)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", h.Health)
	router.Route("/api", func(r chi.Router) {
		r.Get("/clients", h.ListClients)
		r.Post("/discover-resources", h.DiscoverResources)
		r.Post("/generate-report", h.GenerateReport)
		r.Post("/billing-preview", h.BillingPreview)
	})

	return &Server{
		router:   router,
		logger:   &logger,
		config:   config,
		handlers: h,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serve até ctx ser cancelado e então faz o shutdown gracioso.
func (s *Server) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting server")
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			return s.server.Close()
		}
	}
	return nil
}
