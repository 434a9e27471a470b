package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

func item(service, amount string) LineItem {
	return LineItem{Service: service, Amount: decimal.RequireFromString(amount), Unit: "USD"}
}

func july2025(t *testing.T) entity.BillingPeriod {
	t.Helper()
	p, err := entity.NewBillingPeriod(7, 2025)
	require.NoError(t, err)
	return p
}

func TestAggregate_EC2AndTax(t *testing.T) {
	b := Aggregate([]LineItem{item("EC2", "120.50"), item("Tax", "9.64")}, july2025(t), "MONTHLY")

	assert.Equal(t, 130.14, b.TotalCost)
	assert.Equal(t, []entity.ServiceCost{
		{ServiceName: "EC2", Amount: 120.50},
		{ServiceName: "Tax", Amount: 9.64},
	}, b.Services)
	assert.Equal(t, "July 2025", b.BillingPeriod)
	assert.Equal(t, "USD", b.Currency)
}

func TestAggregate_SumsAcrossBucketsAndSorts(t *testing.T) {
	items := []LineItem{
		item("S3", "1.10"),
		item("EC2", "10.00"),
		item("RDS", "0"),
		item("S3", "2.20"),
		item("Lambda", "3.30"),
		item("EC2", "0.01"),
	}
	b := Aggregate(items, july2025(t), "DAILY")

	require.Len(t, b.Services, 3)
	assert.Equal(t, "EC2", b.Services[0].ServiceName)
	assert.Equal(t, 10.01, b.Services[0].Amount)
	// S3 (3.30) e Lambda (3.30) empatam: mantém a ordem de chegada
	assert.Equal(t, "S3", b.Services[1].ServiceName)
	assert.Equal(t, "Lambda", b.Services[2].ServiceName)

	var sum float64
	for i, s := range b.Services {
		assert.Greater(t, s.Amount, 0.0)
		sum += s.Amount
		if i > 0 {
			assert.GreaterOrEqual(t, b.Services[i-1].Amount, s.Amount)
		}
	}
	assert.InDelta(t, b.TotalCost, sum, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	b := Aggregate(nil, july2025(t), "MONTHLY")
	assert.Empty(t, b.Services)
	assert.Zero(t, b.TotalCost)
	assert.Equal(t, DefaultCurrency, b.Currency)
}
