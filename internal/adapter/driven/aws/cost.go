package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/diillson/cloud-insights-reports/internal/application/billing"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

const costMetric = "UnblendedCost"

// Granularity maps a report frequency to the Cost Explorer bucket width.
func Granularity(freq entity.Frequency) ceTypes.Granularity {
	if freq == entity.FrequencyDaily {
		return ceTypes.GranularityDaily
	}
	return ceTypes.GranularityMonthly
}

// GetCostBreakdown consulta o Cost Explorer agrupado por SERVICE e soma os
// grupos de todos os buckets. Qualquer falha da API invalida o resultado.
func (p *Provider) GetCostBreakdown(ctx context.Context, period entity.BillingPeriod, freq entity.Frequency) (entity.CostBreakdown, error) {
	granularity := Granularity(freq)
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(period.Start.Format("2006-01-02")),
			End:   aws.String(period.End.Format("2006-01-02")),
		},
		Granularity: granularity,
		Metrics:     []string{costMetric},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	var items []billing.LineItem
	for {
		result, err := p.clients.CostExplorer().GetCostAndUsage(ctx, input)
		if err != nil {
			return entity.CostBreakdown{}, fmt.Errorf("%w: %w", types.ErrBillingUnavailable, err)
		}
		items = append(items, lineItems(ctx, result.ResultsByTime)...)
		if result.NextPageToken == nil || *result.NextPageToken == "" {
			break
		}
		input.NextPageToken = result.NextPageToken
	}

	return billing.Aggregate(items, period, string(granularity)), nil
}

func lineItems(ctx context.Context, results []ceTypes.ResultByTime) []billing.LineItem {
	var items []billing.LineItem
	for _, bucket := range results {
		for _, group := range bucket.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics[costMetric]
			if !ok || metric.Amount == nil {
				continue
			}
			amount, err := decimal.NewFromString(*metric.Amount)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("service", group.Keys[0]).Msg("ignoring unparsable cost amount")
				continue
			}
			items = append(items, billing.LineItem{
				Service: group.Keys[0],
				Amount:  amount,
				Unit:    aws.ToString(metric.Unit),
			})
		}
	}
	return items
}
