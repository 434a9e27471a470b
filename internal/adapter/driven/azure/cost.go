package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/diillson/cloud-insights-reports/internal/application/billing"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

const (
	costColumn     = "Cost"
	serviceColumn  = "ServiceName"
	currencyColumn = "Currency"
)

// Granularity devolve o rótulo gravado no breakdown, igual ao do lado AWS.
func Granularity(freq entity.Frequency) string {
	if freq == entity.FrequencyDaily {
		return "DAILY"
	}
	return "MONTHLY"
}

// QueryDefinition monta a consulta de custo real agrupada por ServiceName.
// Sem granularidade a API devolve o total do período.
func QueryDefinition(period entity.BillingPeriod, freq entity.Frequency) armcostmanagement.QueryDefinition {
	from := period.Start
	// TimePeriod.To é inclusivo
	until := period.End.Add(-1)

	dataset := &armcostmanagement.QueryDataset{
		Aggregation: map[string]*armcostmanagement.QueryAggregation{
			costColumn: {Name: to.Ptr("PreTaxCost"), Function: to.Ptr(armcostmanagement.FunctionTypeSum)},
		},
		Grouping: []*armcostmanagement.QueryGrouping{
			{Name: to.Ptr(serviceColumn), Type: to.Ptr(armcostmanagement.QueryColumnTypeDimension)},
		},
	}
	if freq == entity.FrequencyDaily {
		dataset.Granularity = to.Ptr(armcostmanagement.GranularityTypeDaily)
	}

	return armcostmanagement.QueryDefinition{
		Type:      to.Ptr(armcostmanagement.ExportTypeActualCost),
		Timeframe: to.Ptr(armcostmanagement.TimeframeTypeCustom),
		TimePeriod: &armcostmanagement.QueryTimePeriod{
			From: &from,
			To:   &until,
		},
		Dataset: dataset,
	}
}

// maxPages limita as páginas seguidas pelo nextLink de uma consulta.
const maxPages = 50

// GetCostBreakdown implements repository.CostAggregator. Todas as páginas do
// resultado são lidas; um resultado incompleto é tratado como falha.
func (p *Provider) GetCostBreakdown(ctx context.Context, period entity.BillingPeriod, freq entity.Frequency) (entity.CostBreakdown, error) {
	def := QueryDefinition(period, freq)
	result, err := p.query.Usage(ctx, p.cfg.Scope(), def, nil)
	if err != nil {
		return entity.CostBreakdown{}, fmt.Errorf("%w: %w", types.ErrBillingUnavailable, err)
	}
	props := result.Properties
	if props == nil {
		return billing.Aggregate(nil, period, Granularity(freq)), nil
	}

	rows := props.Rows
	for pages := 1; props.NextLink != nil && *props.NextLink != ""; pages++ {
		if pages >= maxPages {
			return entity.CostBreakdown{}, fmt.Errorf("%w: cost query exceeded %d pages", types.ErrBillingUnavailable, maxPages)
		}
		page, err := p.query.NextPage(ctx, *props.NextLink, def)
		if err != nil {
			return entity.CostBreakdown{}, fmt.Errorf("%w: %w", types.ErrBillingUnavailable, err)
		}
		if page.Properties == nil {
			break
		}
		rows = append(rows, page.Properties.Rows...)
		props = page.Properties
	}
	zerolog.Ctx(ctx).Debug().Str("subscription", p.cfg.SubscriptionID).Int("rows", len(rows)).Msg("azure cost query done")

	items, err := lineItems(result.Properties.Columns, rows)
	if err != nil {
		return entity.CostBreakdown{}, fmt.Errorf("%w: %w", types.ErrBillingUnavailable, err)
	}
	return billing.Aggregate(items, period, Granularity(freq)), nil
}

// lineItems converte as linhas da consulta usando as colunas pelo nome, já
// que a posição muda quando há coluna de data.
func lineItems(columns []*armcostmanagement.QueryColumn, rows [][]any) ([]billing.LineItem, error) {
	costIdx, serviceIdx, currencyIdx := -1, -1, -1
	for i, col := range columns {
		if col == nil || col.Name == nil {
			continue
		}
		switch {
		case strings.EqualFold(*col.Name, costColumn), strings.EqualFold(*col.Name, "PreTaxCost"):
			costIdx = i
		case strings.EqualFold(*col.Name, serviceColumn):
			serviceIdx = i
		case strings.EqualFold(*col.Name, currencyColumn):
			currencyIdx = i
		}
	}
	if costIdx < 0 || serviceIdx < 0 {
		return nil, fmt.Errorf("cost query result is missing the %s or %s column", costColumn, serviceColumn)
	}

	items := make([]billing.LineItem, 0, len(rows))
	for _, row := range rows {
		if len(row) <= costIdx || len(row) <= serviceIdx {
			continue
		}
		amount, err := toDecimal(row[costIdx])
		if err != nil {
			return nil, err
		}
		item := billing.LineItem{Service: fmt.Sprintf("%v", row[serviceIdx]), Amount: amount}
		if currencyIdx >= 0 && len(row) > currencyIdx {
			item.Unit = fmt.Sprintf("%v", row[currencyIdx])
		}
		items = append(items, item)
	}
	return items, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		return decimal.NewFromString(n)
	}
	return decimal.Zero, fmt.Errorf("unexpected cost value %v (%T)", v, v)
}
