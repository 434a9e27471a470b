package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidBillingPeriod is returned for a month/year pair outside the calendar.
var ErrInvalidBillingPeriod = errors.New("invalid billing period")

// ServiceCost represents a cost amount for a specific cloud service.
type ServiceCost struct {
	ServiceName string  `json:"service"`
	Amount      float64 `json:"amount"`
}

// IsTax indica se a linha é um item de imposto, exibido separado dos serviços.
func (s ServiceCost) IsTax() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.ServiceName)), "tax")
}

// CostBreakdown contém o custo por serviço de um período de faturamento.
type CostBreakdown struct {
	Services      []ServiceCost `json:"services"`
	TotalCost     float64       `json:"total_cost"`
	BillingPeriod string        `json:"billing_period"`
	Period        string        `json:"period"`
	Start         time.Time     `json:"start_date"`
	End           time.Time     `json:"end_date"`
	Granularity   string        `json:"granularity"`
	Currency      string        `json:"currency"`
}

// Percentage returns the share of amount in the total, in percent.
func (b CostBreakdown) Percentage(amount float64) float64 {
	if b.TotalCost == 0 {
		return 0
	}
	return amount / b.TotalCost * 100
}

// Split separa serviços regulares dos itens de imposto, preservando a ordem.
func (b CostBreakdown) Split() (regular, tax []ServiceCost) {
	for _, s := range b.Services {
		if s.IsTax() {
			tax = append(tax, s)
			continue
		}
		regular = append(regular, s)
	}
	return regular, tax
}

// BillingPeriod is the calendar month window [Start, End).
type BillingPeriod struct {
	Month time.Month
	Year  int
	Start time.Time
	End   time.Time
}

// NewBillingPeriod builds the [first-of-month, first-of-next-month) window,
// rolling the year over in December.
func NewBillingPeriod(month, year int) (BillingPeriod, error) {
	if month < 1 || month > 12 {
		return BillingPeriod{}, fmt.Errorf("%w: month %d", ErrInvalidBillingPeriod, month)
	}
	if year < 2000 || year > 9999 {
		return BillingPeriod{}, fmt.Errorf("%w: year %d", ErrInvalidBillingPeriod, year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return BillingPeriod{
		Month: time.Month(month),
		Year:  year,
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}, nil
}

// Label returns the human label, e.g. "July 2025".
func (p BillingPeriod) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// Range returns "2025-07-01 to 2025-08-01".
func (p BillingPeriod) Range() string {
	return fmt.Sprintf("%s to %s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}
