package repository

import (
	"context"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// ReportRenderer assembles a paginated PDF document from a report context.
type ReportRenderer interface {
	RenderUtilization(ctx context.Context, rc entity.ReportContext) ([]byte, error)
	RenderBilling(ctx context.Context, rc entity.ReportContext) ([]byte, error)
}

// ArtifactSink recebe os bytes do relatório gerado e devolve onde foram gravados.
type ArtifactSink interface {
	Store(ctx context.Context, report *entity.GeneratedReport) (string, error)
}
