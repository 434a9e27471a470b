package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

func TestResourceTable(t *testing.T) {
	c := &Console{out: &bytes.Buffer{}}
	out := c.ResourceTable([]entity.ResourceDescriptor{
		{ID: "i-1", Name: "web", Type: "t3.micro", State: "running", OS: "Linux", Region: "us-east-1", ServiceType: entity.ServiceEC2},
		{ID: "orders", Name: "orders", Type: "db.t3.medium", State: "available", Engine: "postgres", Region: "us-east-1", ServiceType: entity.ServiceRDS},
	}).Render()

	assert.Contains(t, out, "EC2|i-1|us-east-1")
	assert.Contains(t, out, "postgres")
}

func TestDisplayCostBars(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{out: &buf}
	c.DisplayCostBars(entity.CostBreakdown{
		Services:      []entity.ServiceCost{{ServiceName: "EC2", Amount: 120.50}, {ServiceName: "Tax", Amount: 9.64}},
		TotalCost:     130.14,
		BillingPeriod: "July 2025",
		Granularity:   "MONTHLY",
		Currency:      "USD",
	})

	assert.Contains(t, buf.String(), "$130.14")
	assert.Contains(t, buf.String(), "92.59%")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1.50", formatMoney(1.5, ""))
	assert.Equal(t, "1.50 EUR", formatMoney(1.5, "EUR"))
}

func TestStatusHandle_StopWithoutSpinner(t *testing.T) {
	var h types.StatusHandle = &statusHandle{}
	assert.NotPanics(t, h.Stop)
}

func TestResourceTable_StoppedState(t *testing.T) {
	c := &Console{out: &bytes.Buffer{}}
	out := c.ResourceTable([]entity.ResourceDescriptor{
		{ID: "i-2", Name: "batch", State: "stopped", Region: "us-east-1", ServiceType: entity.ServiceEC2},
	}).Render()

	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "EC2|i-2|us-east-1")
}
