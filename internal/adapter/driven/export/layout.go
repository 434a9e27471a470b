package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/chart"
	"github.com/diillson/cloud-insights-reports/internal/application/analysis"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// Notices printed on resource pages without metric sections.
const (
	StoppedNotice = "Instance is stopped - no metrics available"
	NoDataNotice  = "No metric data available for the selected period"
	ChartMissing  = "chart could not be generated"

	billingFootnote = "Cost Explorer data can take up to 24 hours to reflect the latest usage. Amounts are unblended costs."
)

// PageKind identifica o papel de uma página no documento.
type PageKind string

const (
	PageCover    PageKind = "cover"
	PageSummary  PageKind = "summary"
	PageResource PageKind = "resource"
)

// BlockKind é o tipo de um bloco desenhado em uma página.
type BlockKind string

const (
	BlockTitle    BlockKind = "title"
	BlockHeading  BlockKind = "heading"
	BlockKeyValue BlockKind = "key_value"
	BlockTable    BlockKind = "table"
	BlockRemark   BlockKind = "remark"
	BlockChart    BlockKind = "chart"
	BlockNotice   BlockKind = "notice"
	BlockText     BlockKind = "text"
)

// RowKind marks table rows that are drawn differently.
type RowKind int

const (
	RowNormal RowKind = iota
	RowSeparator
	RowTax
	RowTotal
	RowAlert
)

// Row é uma linha de tabela.
type Row struct {
	Cells []string
	Kind  RowKind
}

// ChartBlock carries what the renderer needs to draw one metric chart.
type ChartBlock struct {
	Series  entity.MetricSeries
	Options chart.Options
}

// Block is one drawable element of a page.
type Block struct {
	Kind   BlockKind
	Text   string
	Header []string
	Rows   []Row
	Widths []float64
	Chart  *ChartBlock
}

// Page é uma seção que começa em uma nova página.
type Page struct {
	Kind   PageKind
	Blocks []Block
}

// Plan is the full document layout, computed before any drawing.
type Plan struct {
	Title string
	Pages []Page
}

// Count returns how many blocks of the given kind the page holds.
func (p Page) Count(kind BlockKind) int {
	n := 0
	for _, b := range p.Blocks {
		if b.Kind == kind {
			n++
		}
	}
	return n
}

// PagesOf returns the pages of a kind, in order.
func (p Plan) PagesOf(kind PageKind) []Page {
	var out []Page
	for _, page := range p.Pages {
		if page.Kind == kind {
			out = append(out, page)
		}
	}
	return out
}

func kv(rows ...[2]string) Block {
	b := Block{Kind: BlockKeyValue, Widths: []float64{60, 120}}
	for _, r := range rows {
		b.Rows = append(b.Rows, Row{Cells: []string{r[0], r[1]}})
	}
	return b
}

func reportLabel(freq entity.Frequency) string {
	if freq == entity.FrequencyWeekly {
		return "Weekly Utilization Report (Last 7 Days)"
	}
	return "Daily Utilization Report (Last 24 Hours)"
}

// PlanUtilization lays out cover, per-service summary tables and one page per
// resource. Metric sections follow CPU -> Memory -> Disk and sections without
// data are omitted.
func PlanUtilization(rc entity.ReportContext, loc *time.Location) Plan {
	if loc == nil {
		loc = time.UTC
	}
	accountID := rc.AccountID
	if accountID == "" {
		accountID = "N/A"
	}

	cover := Page{Kind: PageCover, Blocks: []Block{
		{Kind: BlockTitle, Text: "Cloud Utilization Report"},
		kv(
			[2]string{"Account Name", rc.AccountName},
			[2]string{"Report", reportLabel(rc.Frequency)},
			[2]string{"Cloud Provider", string(rc.Provider)},
			[2]string{"Account ID", accountID},
			[2]string{"Generated", rc.GeneratedAt.In(loc).Format("2006-01-02 15:04 MST")},
			[2]string{"Resources", fmt.Sprintf("%d", len(rc.Resources))},
		),
	}}
	for _, n := range rc.Notices {
		cover.Blocks = append(cover.Blocks, Block{Kind: BlockNotice, Text: n})
	}

	plan := Plan{Title: "Cloud Utilization Report", Pages: []Page{cover}}
	if len(rc.Resources) == 0 {
		return plan
	}

	plan.Pages = append(plan.Pages, summaryPage(rc.Resources))
	for _, res := range rc.Resources {
		plan.Pages = append(plan.Pages, resourcePage(res, rc.Frequency))
	}
	return plan
}

func summaryPage(resources []entity.ResourceMetrics) Page {
	page := Page{Kind: PageSummary, Blocks: []Block{{Kind: BlockHeading, Text: "Resource Summary"}}}

	var order []entity.ServiceType
	grouped := map[entity.ServiceType][]entity.ResourceDescriptor{}
	for _, r := range resources {
		st := r.Descriptor.ServiceType
		if _, ok := grouped[st]; !ok {
			order = append(order, st)
		}
		grouped[st] = append(grouped[st], r.Descriptor)
	}

	for _, st := range order {
		table := Block{Kind: BlockTable}
		if st.IsManagedDatabase() {
			table.Header = []string{"DB Identifier", "Instance Class", "Status", "Engine"}
			table.Widths = []float64{60, 45, 35, 40}
		} else {
			table.Header = []string{"Instance ID", "Name", "Type", "Status"}
			table.Widths = []float64{50, 60, 35, 35}
		}
		for _, d := range grouped[st] {
			if st.IsManagedDatabase() {
				table.Rows = append(table.Rows, Row{Cells: []string{d.ID, d.Type, d.State, d.Engine}})
			} else {
				table.Rows = append(table.Rows, Row{Cells: []string{d.ID, d.Name, d.Type, d.State}})
			}
		}
		page.Blocks = append(page.Blocks, Block{Kind: BlockHeading, Text: fmt.Sprintf("%s Resources", st)}, table)
	}
	return page
}

func resourcePage(res entity.ResourceMetrics, freq entity.Frequency) Page {
	d := res.Descriptor
	identity := [][2]string{
		{"Resource ID", d.ID},
		{"Name", d.Name},
		{"Type", d.Type},
		{"Status", d.State},
		{"Region", d.Region},
	}
	if d.ServiceType.IsManagedDatabase() {
		identity = append(identity, [2]string{"Engine", d.Engine})
	} else {
		identity = append(identity, [2]string{"Operating System", string(d.OSFamily())})
	}

	page := Page{Kind: PageResource, Blocks: []Block{
		{Kind: BlockHeading, Text: fmt.Sprintf("%s: %s", d.ServiceType, d.Name)},
		kv(identity...),
	}}

	if d.IsStopped() {
		page.Blocks = append(page.Blocks, Block{Kind: BlockNotice, Text: StoppedNotice})
		return page
	}
	if !res.HasData() {
		page.Blocks = append(page.Blocks, Block{Kind: BlockNotice, Text: NoDataNotice})
		return page
	}

	metrics := append([]entity.MetricResult(nil), res.Metrics...)
	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].Spec.Kind.Order() < metrics[j].Spec.Kind.Order()
	})

	for _, m := range metrics {
		if m.Series.IsEmpty() {
			continue
		}
		remark := analysis.RemarkFor(m.Spec, m.Series.Average)
		page.Blocks = append(page.Blocks,
			Block{Kind: BlockHeading, Text: m.Spec.Section},
			Block{Kind: BlockRemark, Text: remark.Text},
			Block{
				Kind:   BlockTable,
				Header: []string{"Metric", "Average"},
				Widths: []float64{90, 90},
				Rows:   []Row{{Cells: []string{m.Spec.Label, analysis.FormatAverage(m.Series.Average, m.Series.Unit)}}},
			},
			Block{Kind: BlockChart, Chart: &ChartBlock{
				Series:  m.Series,
				Options: chart.Options{ResourceName: d.Name, Label: m.Spec.Label, Frequency: freq},
			}},
		)
	}
	return page
}

// PlanBilling lays out cover, summary and the per-service table. Tax lines are
// listed after a blank separator row, followed by the total row.
func PlanBilling(rc entity.ReportContext, loc *time.Location) Plan {
	if loc == nil {
		loc = time.UTC
	}
	b := entity.CostBreakdown{}
	if rc.Billing != nil {
		b = *rc.Billing
	}

	cover := Page{Kind: PageCover, Blocks: []Block{
		{Kind: BlockTitle, Text: "Cloud Billing Report"},
		kv(
			[2]string{"Client", rc.AccountName},
			[2]string{"Report Type", "Billing Report"},
			[2]string{"Cloud Provider", string(rc.Provider)},
			[2]string{"Billing Period", b.BillingPeriod},
			[2]string{"Generated", rc.GeneratedAt.In(loc).Format("2006-01-02 15:04 MST")},
			[2]string{"Currency", b.Currency},
		),
		{Kind: BlockText, Text: billingFootnote},
	}}
	for _, n := range rc.Notices {
		cover.Blocks = append(cover.Blocks, Block{Kind: BlockNotice, Text: n})
	}

	summary := Page{Kind: PageSummary, Blocks: []Block{
		{Kind: BlockHeading, Text: "Billing Summary"},
		kv(
			[2]string{"Total Cost", FormatMoney(b.TotalCost, b.Currency)},
			[2]string{"Period", b.Period},
			[2]string{"Granularity", strings.ToLower(b.Granularity)},
			[2]string{"Services Billed", fmt.Sprintf("%d", len(b.Services))},
		),
	}}
	if len(rc.Budgets) > 0 {
		budgets := Block{
			Kind:   BlockTable,
			Header: []string{"Budget", "Limit", "Actual", "Forecast", "Used"},
			Widths: []float64{50, 32, 32, 32, 34},
		}
		for _, bu := range rc.Budgets {
			row := Row{Cells: []string{
				bu.Name,
				FormatMoney(bu.Limit, b.Currency),
				FormatMoney(bu.Actual, b.Currency),
				FormatMoney(bu.Forecast, b.Currency),
				fmt.Sprintf("%.1f%%", bu.UsagePercent()),
			}}
			if bu.Exceeded() {
				row.Kind = RowAlert
			}
			budgets.Rows = append(budgets.Rows, row)
		}
		summary.Blocks = append(summary.Blocks, Block{Kind: BlockHeading, Text: "Budgets"}, budgets)
	}

	summary.Blocks = append(summary.Blocks,
		Block{Kind: BlockHeading, Text: "Cost by Service"},
		ServiceTable(b),
	)

	return Plan{Title: "Cloud Billing Report", Pages: []Page{cover, summary}}
}

// ServiceTable builds the service/cost/percentage table of a breakdown.
func ServiceTable(b entity.CostBreakdown) Block {
	table := Block{
		Kind:   BlockTable,
		Header: []string{"Service", fmt.Sprintf("Cost (%s)", b.Currency), "% of Total"},
		Widths: []float64{110, 40, 30},
	}
	regular, tax := b.Split()
	for _, s := range regular {
		table.Rows = append(table.Rows, serviceRow(b, s, RowNormal))
	}
	if len(tax) > 0 {
		table.Rows = append(table.Rows, Row{Cells: []string{"", "", ""}, Kind: RowSeparator})
		for _, s := range tax {
			table.Rows = append(table.Rows, serviceRow(b, s, RowTax))
		}
	}
	table.Rows = append(table.Rows, Row{
		Cells: []string{"Total", FormatMoney(b.TotalCost, b.Currency), "100.00%"},
		Kind:  RowTotal,
	})
	return table
}

func serviceRow(b entity.CostBreakdown, s entity.ServiceCost, kind RowKind) Row {
	return Row{
		Cells: []string{s.ServiceName, FormatMoney(s.Amount, b.Currency), fmt.Sprintf("%.2f%%", b.Percentage(s.Amount))},
		Kind:  kind,
	}
}

// FormatMoney renders "$120.50" for USD and "120.50 EUR" otherwise.
func FormatMoney(amount float64, currency string) string {
	if currency == "" || currency == "USD" {
		return fmt.Sprintf("$%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
