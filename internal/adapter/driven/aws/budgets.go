package aws

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// GetAccountID returns the account of the request credentials.
func (p *Provider) GetAccountID(ctx context.Context) (string, error) {
	result, err := p.clients.STS().GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", err
	}
	return aws.ToString(result.Account), nil
}

// GetBudgets lista os budgets da conta. A falha não é fatal: o relatório de
// faturamento segue sem a seção de budgets.
func (p *Provider) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	accountID, err := p.GetAccountID(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("skipping budgets, account id unavailable")
		return nil, nil
	}

	result, err := p.clients.Budgets().DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("skipping budgets")
		return nil, nil
	}

	budgetsData := []entity.BudgetInfo{}
	for _, budget := range result.Budgets {
		b := entity.BudgetInfo{Name: aws.ToString(budget.BudgetName)}
		if budget.BudgetLimit != nil {
			b.Limit, _ = strconv.ParseFloat(aws.ToString(budget.BudgetLimit.Amount), 64)
		}
		if budget.CalculatedSpend != nil {
			if budget.CalculatedSpend.ActualSpend != nil {
				b.Actual, _ = strconv.ParseFloat(aws.ToString(budget.CalculatedSpend.ActualSpend.Amount), 64)
			}
			if budget.CalculatedSpend.ForecastedSpend != nil {
				b.Forecast, _ = strconv.ParseFloat(aws.ToString(budget.CalculatedSpend.ForecastedSpend.Amount), 64)
			}
		}
		budgetsData = append(budgetsData, b)
	}
	return budgetsData, nil
}
