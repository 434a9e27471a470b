package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrUnsupportedProvider   = errors.New("unsupported cloud provider")
	ErrUnsupportedReportType = errors.New("unsupported report type")
	ErrUnsupportedFrequency  = errors.New("unsupported frequency")
)

// Provider identifica o provedor de nuvem.
type Provider string

const (
	ProviderAWS   Provider = "AWS"
	ProviderAzure Provider = "Azure"
)

// ParseProvider converte uma string (case-insensitive) em Provider.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aws":
		return ProviderAWS, nil
	case "azure":
		return ProviderAzure, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
}

// ReportType é o tipo de relatório gerado.
type ReportType string

const (
	ReportUtilization ReportType = "utilization"
	ReportBilling     ReportType = "billing"
)

// ParseReportType converte uma string em ReportType.
func ParseReportType(s string) (ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utilization":
		return ReportUtilization, nil
	case "billing":
		return ReportBilling, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedReportType, s)
}

// Frequency é a janela do relatório de utilização (ou a granularidade do faturamento).
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency converts a string into a Frequency. Empty means daily.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFrequency, s)
}

// PeriodDays returns the utilization window length in days.
func (f Frequency) PeriodDays() int {
	if f == FrequencyWeekly {
		return 7
	}
	return 1
}

// Window returns the window ending at end.
func (f Frequency) Window(end time.Time) TimeWindow {
	return TimeWindow{Start: end.AddDate(0, 0, -f.PeriodDays()), End: end}
}

// ReportContext é o agregado de uma única geração de relatório.
type ReportContext struct {
	AccountName string
	AccountID   string
	Provider    Provider
	Type        ReportType
	Frequency   Frequency
	GeneratedAt time.Time

	Resources []ResourceMetrics

	Billing *CostBreakdown
	Budgets []BudgetInfo

	Notices []string
}

// GeneratedReport carrega os bytes do PDF e os metadados de download.
type GeneratedReport struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	Type        ReportType `json:"type"`
	Data        []byte     `json:"-"`
	Notices     []string   `json:"notices,omitempty"`
	Truncated   bool       `json:"truncated"`
	Requested   int        `json:"requested_resources,omitempty"`
	Processed   int        `json:"processed_resources,omitempty"`
	Location    string     `json:"location,omitempty"`
}

// unsafeChars são os caracteres trocados por "-" nos nomes de arquivo.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName normalizes a client name for use in file names and object keys.
func SafeName(name string) string {
	name = unsafeChars.ReplaceAllString(strings.TrimSpace(name), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "report"
	}
	return name
}

// UtilizationFilename returns "{client}-{YYYY-MM-DD}-utilization-report.pdf".
func UtilizationFilename(client string, at time.Time) string {
	return fmt.Sprintf("%s-%s-utilization-report.pdf", SafeName(client), at.Format("2006-01-02"))
}

// BillingFilename returns "{client}-{MM}-{YYYY}-billing-report.pdf".
func BillingFilename(client string, month, year int) string {
	return fmt.Sprintf("%s-%02d-%d-billing-report.pdf", SafeName(client), month, year)
}
