// Package billing agrega linhas de custo retornadas pelos provedores em um
// CostBreakdown ordenado.
package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// DefaultCurrency is used when the provider response carries no unit.
const DefaultCurrency = "USD"

// LineItem is one (service, amount) group of a single time bucket.
type LineItem struct {
	Service string
	Amount  decimal.Decimal
	Unit    string
}

// Aggregate sums line items per service across every bucket. The total covers
// all groups, services whose sum is not positive are left out of the list,
// and the list is sorted by amount descending with ties kept in first-seen
// order.
func Aggregate(items []LineItem, period entity.BillingPeriod, granularity string) entity.CostBreakdown {
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	total := decimal.Zero
	currency := ""

	for _, it := range items {
		if _, seen := totals[it.Service]; !seen {
			order = append(order, it.Service)
			totals[it.Service] = decimal.Zero
		}
		totals[it.Service] = totals[it.Service].Add(it.Amount)
		total = total.Add(it.Amount)
		if currency == "" && it.Unit != "" {
			currency = it.Unit
		}
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	services := make([]entity.ServiceCost, 0, len(order))
	for _, name := range order {
		amount := totals[name]
		if !amount.IsPositive() {
			continue
		}
		services = append(services, entity.ServiceCost{
			ServiceName: name,
			Amount:      amount.InexactFloat64(),
		})
	}

	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Amount > services[j].Amount
	})

	return entity.CostBreakdown{
		Services:      services,
		TotalCost:     total.InexactFloat64(),
		BillingPeriod: period.Label(),
		Period:        period.Range(),
		Start:         period.Start,
		End:           period.End,
		Granularity:   granularity,
		Currency:      currency,
	}
}
