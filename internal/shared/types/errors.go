package types

import (
	"errors"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

var (
	ErrClientNotFound       = errors.New("client credentials not found")
	ErrBillingUnavailable   = errors.New("billing data unavailable")
	ErrNoResources          = errors.New("resources are required for utilization reports")
	ErrMissingClientName    = errors.New("client name is required")
	ErrMetricsNotSupported  = errors.New("metrics are not supported for this provider")
	ErrInventoryUnavailable = errors.New("resource inventory is not available for this provider")

	ErrMalformedReference    = entity.ErrMalformedReference
	ErrInvalidBillingPeriod  = entity.ErrInvalidBillingPeriod
	ErrUnsupportedProvider   = entity.ErrUnsupportedProvider
	ErrUnsupportedReportType = entity.ErrUnsupportedReportType
	ErrUnsupportedFrequency  = entity.ErrUnsupportedFrequency
)

// IsRequestError reports whether err was caused by invalid request input.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrMalformedReference) ||
		errors.Is(err, ErrInvalidBillingPeriod) ||
		errors.Is(err, ErrUnsupportedProvider) ||
		errors.Is(err, ErrUnsupportedReportType) ||
		errors.Is(err, ErrUnsupportedFrequency) ||
		errors.Is(err, ErrNoResources) ||
		errors.Is(err, ErrMissingClientName)
}
