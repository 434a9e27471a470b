package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/chart"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

type stubCharts struct {
	calls int
	png   []byte
}

func (s *stubCharts) Render(ctx context.Context, series entity.MetricSeries, opts chart.Options) chart.Result {
	s.calls++
	return chart.Result{PNG: s.png, Title: opts.Label, StatsLine: chart.StatsLine(series)}
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		img.SetGray(x, 5, color.Gray{Y: 128})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fullSeries(start time.Time, unit entity.Unit, values ...float64) entity.MetricSeries {
	s := entity.MetricSeries{Unit: unit, Values: values, Min: values[0], Max: values[0]}
	var sum float64
	for i, v := range values {
		s.Timestamps = append(s.Timestamps, start.Add(time.Duration(i)*15*time.Minute))
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Average = sum / float64(len(values))
	return s
}

func utilizationContext() entity.ReportContext {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	pct := func(kind entity.MetricKind, section string, values ...float64) entity.MetricResult {
		return entity.MetricResult{
			Spec:   entity.MetricSpec{Kind: kind, Section: section, Label: section + " (%)", SourceUnit: entity.UnitPercent, DisplayUnit: entity.UnitPercent},
			Series: fullSeries(start, entity.UnitPercent, values...),
		}
	}
	running := entity.ResourceMetrics{
		Descriptor: entity.ResourceDescriptor{ID: "i-running", Name: "web", Type: "t3.micro", State: "running", Region: "us-east-1", ServiceType: entity.ServiceEC2},
		// fora de ordem de propósito
		Metrics: []entity.MetricResult{
			pct(entity.MetricDisk, "Disk Utilization", 40, 41),
			pct(entity.MetricCPU, "CPU Utilization", 90, 95),
			pct(entity.MetricMemory, "Memory Utilization", 60, 62),
		},
	}
	stopped := entity.ResourceMetrics{
		Descriptor: entity.ResourceDescriptor{ID: "i-stopped", Name: "batch", Type: "t3.small", State: "stopped", Region: "us-east-1", ServiceType: entity.ServiceEC2},
	}
	return entity.ReportContext{
		AccountName: "acme",
		Provider:    entity.ProviderAWS,
		Type:        entity.ReportUtilization,
		Frequency:   entity.FrequencyDaily,
		GeneratedAt: start.Add(24 * time.Hour),
		Resources:   []entity.ResourceMetrics{running, stopped},
	}
}

func TestPlanUtilization_TwoResourcesOneStopped(t *testing.T) {
	plan := PlanUtilization(utilizationContext(), time.UTC)

	require.Len(t, plan.PagesOf(PageCover), 1)
	require.Len(t, plan.PagesOf(PageSummary), 1)
	pages := plan.PagesOf(PageResource)
	require.Len(t, pages, 2)

	running := pages[0]
	assert.Equal(t, 3, running.Count(BlockChart))
	var sections []string
	for _, b := range running.Blocks {
		if b.Kind == BlockHeading {
			sections = append(sections, b.Text)
		}
	}
	assert.Equal(t, []string{"EC2: web", "CPU Utilization", "Memory Utilization", "Disk Utilization"}, sections)

	stopped := pages[1]
	assert.Zero(t, stopped.Count(BlockChart))
	assert.Zero(t, stopped.Count(BlockRemark))
	assert.Equal(t, 1, stopped.Count(BlockKeyValue))
	require.Equal(t, 1, stopped.Count(BlockNotice))
	assert.Equal(t, StoppedNotice, stopped.Blocks[len(stopped.Blocks)-1].Text)

	cover := plan.PagesOf(PageCover)[0]
	assert.Contains(t, cover.Blocks[1].Rows[3].Cells, "N/A")
}

func TestPlanUtilization_PartialAndMissingData(t *testing.T) {
	rc := utilizationContext()
	rc.Resources[0].Metrics[1].Series = entity.MetricSeries{} // sem CPU
	rc.Resources[1].Descriptor.State = "running"              // sem métricas

	pages := PlanUtilization(rc, time.UTC).PagesOf(PageResource)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[0].Count(BlockChart))
	assert.Zero(t, pages[1].Count(BlockChart))
	assert.Equal(t, NoDataNotice, pages[1].Blocks[len(pages[1].Blocks)-1].Text)
}

func TestPlanUtilization_SummaryPerServiceType(t *testing.T) {
	rc := utilizationContext()
	rc.Resources = append(rc.Resources, entity.ResourceMetrics{
		Descriptor: entity.ResourceDescriptor{ID: "orders", Name: "orders", Type: "db.t3.medium", State: "available", Engine: "postgres", ServiceType: entity.ServiceRDS},
	})

	summary := PlanUtilization(rc, time.UTC).PagesOf(PageSummary)[0]
	assert.Equal(t, 2, summary.Count(BlockTable))
	var dbTable Block
	for _, b := range summary.Blocks {
		if b.Kind == BlockTable && b.Header[0] == "DB Identifier" {
			dbTable = b
		}
	}
	require.Len(t, dbTable.Rows, 1)
	assert.Equal(t, []string{"orders", "db.t3.medium", "available", "postgres"}, dbTable.Rows[0].Cells)
}

func billingContext() entity.ReportContext {
	period, _ := entity.NewBillingPeriod(7, 2025)
	return entity.ReportContext{
		AccountName: "acme",
		Provider:    entity.ProviderAWS,
		Type:        entity.ReportBilling,
		GeneratedAt: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		Billing: &entity.CostBreakdown{
			Services:      []entity.ServiceCost{{ServiceName: "EC2", Amount: 120.50}, {ServiceName: "Tax", Amount: 9.64}},
			TotalCost:     130.14,
			BillingPeriod: period.Label(),
			Period:        period.Range(),
			Granularity:   "MONTHLY",
			Currency:      "USD",
		},
		Budgets: []entity.BudgetInfo{{Name: "monthly", Limit: 100, Actual: 130.14}},
	}
}

func TestServiceTable_TaxAfterSeparator(t *testing.T) {
	table := ServiceTable(*billingContext().Billing)

	require.Len(t, table.Rows, 4)
	assert.Equal(t, "EC2", table.Rows[0].Cells[0])
	assert.Equal(t, RowNormal, table.Rows[0].Kind)
	assert.Equal(t, RowSeparator, table.Rows[1].Kind)
	assert.Equal(t, "Tax", table.Rows[2].Cells[0])
	assert.Equal(t, RowTax, table.Rows[2].Kind)
	assert.Equal(t, RowTotal, table.Rows[3].Kind)
	assert.Equal(t, "$130.14", table.Rows[3].Cells[1])
	assert.Equal(t, "92.59%", table.Rows[0].Cells[2])
}

func TestServiceTable_NoTaxNoSeparator(t *testing.T) {
	b := entity.CostBreakdown{Services: []entity.ServiceCost{{ServiceName: "S3", Amount: 2}}, TotalCost: 2, Currency: "EUR"}
	table := ServiceTable(b)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, RowTotal, table.Rows[1].Kind)
	assert.Equal(t, "2.00 EUR", table.Rows[1].Cells[1])
}

func TestPlanBilling(t *testing.T) {
	plan := PlanBilling(billingContext(), time.UTC)
	require.Len(t, plan.Pages, 2)
	summary := plan.Pages[1]
	assert.Equal(t, 2, summary.Count(BlockTable))
	assert.Equal(t, "$130.14", summary.Blocks[1].Rows[0].Cells[1])
}

func TestRenderer_ProducesPDF(t *testing.T) {
	charts := &stubCharts{png: tinyPNG(t)}
	r := NewRenderer(charts, Letterhead{Website: "www.example.com", Company: "example"}, time.UTC)

	data, err := r.RenderUtilization(context.Background(), utilizationContext())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, 3, charts.calls)

	data, err = r.RenderBilling(context.Background(), billingContext())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderer_BrokenChartDoesNotFailDocument(t *testing.T) {
	r := NewRenderer(&stubCharts{png: []byte("not a png")}, Letterhead{Company: "example"}, time.UTC)

	data, err := r.RenderUtilization(context.Background(), utilizationContext())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
