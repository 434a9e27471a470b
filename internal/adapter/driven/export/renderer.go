// Package export monta os relatórios em PDF: primeiro o plano de páginas,
// depois o desenho com gofpdf.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/chart"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
)

// ChartRenderer draws one metric chart. chart.Renderer implements it.
type ChartRenderer interface {
	Render(ctx context.Context, series entity.MetricSeries, opts chart.Options) chart.Result
}

// Letterhead é o cabeçalho fixo aplicado em todas as páginas.
type Letterhead struct {
	Website  string
	Company  string
	LogoPath string
}

// Renderer implementa repository.ReportRenderer com gofpdf.
type Renderer struct {
	charts     ChartRenderer
	letterhead Letterhead
	loc        *time.Location
}

// NewRenderer creates the PDF renderer.
func NewRenderer(charts ChartRenderer, letterhead Letterhead, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{charts: charts, letterhead: letterhead, loc: loc}
}

var (
	headerColor     = [3]int{40, 40, 40}
	headerTextColor = [3]int{255, 255, 255}
	bodyTextColor   = [3]int{50, 50, 50}
	lineColor       = [3]int{200, 200, 200}
	taxFillColor    = [3]int{250, 240, 225}
	alertTextColor  = [3]int{192, 0, 0}
)

const contentWidth = 180.0

// RenderUtilization implements repository.ReportRenderer.
func (r *Renderer) RenderUtilization(ctx context.Context, rc entity.ReportContext) ([]byte, error) {
	return r.render(ctx, PlanUtilization(rc, r.loc), rc.GeneratedAt)
}

// RenderBilling implements repository.ReportRenderer.
func (r *Renderer) RenderBilling(ctx context.Context, rc entity.ReportContext) ([]byte, error) {
	return r.render(ctx, PlanBilling(rc, r.loc), rc.GeneratedAt)
}

func (r *Renderer) render(ctx context.Context, plan Plan, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(plan.Title, true)
	pdf.SetMargins(15, 28, 15)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() { r.drawLetterhead(pdf, tr) })
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footer := fmt.Sprintf("Generated by %s Cloud Insights | %s", r.letterhead.Company, generatedAt.In(r.loc).Format("2006-01-02"))
		pdf.CellFormat(90, 10, tr(footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	chartSeq := 0
	for _, page := range plan.Pages {
		pdf.AddPage()
		for _, block := range page.Blocks {
			switch block.Kind {
			case BlockTitle:
				pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
				pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
				pdf.SetFont("Arial", "B", 18)
				pdf.CellFormat(0, 16, tr("  "+block.Text), "", 1, "L", true, 0, "")
				pdf.Ln(8)
			case BlockHeading:
				pdf.SetFont("Arial", "B", 12)
				pdf.SetTextColor(0, 0, 0)
				pdf.Cell(0, 8, tr(block.Text))
				pdf.Ln(7)
				pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
				pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+contentWidth, pdf.GetY())
				pdf.Ln(3)
			case BlockKeyValue:
				drawKeyValue(pdf, tr, block)
			case BlockTable:
				drawTable(pdf, tr, block)
			case BlockRemark:
				pdf.SetFont("Arial", "", 10)
				pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
				pdf.MultiCell(contentWidth, 5, tr("Remark: "+block.Text), "", "L", false)
				pdf.Ln(2)
			case BlockNotice:
				pdf.SetFont("Arial", "B", 10)
				pdf.SetFillColor(240, 240, 240)
				pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
				pdf.MultiCell(contentWidth, 8, tr(block.Text), "", "L", true)
				pdf.Ln(4)
			case BlockText:
				pdf.SetFont("Arial", "I", 8)
				pdf.SetTextColor(100, 100, 100)
				pdf.MultiCell(contentWidth, 4, tr(block.Text), "", "L", false)
				pdf.Ln(4)
			case BlockChart:
				chartSeq++
				r.drawChart(ctx, pdf, tr, block.Chart, chartSeq)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing PDF document: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLetterhead desenha a borda da página, o site à esquerda e o logo à direita.
func (r *Renderer) drawLetterhead(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetDrawColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetLineWidth(0.5)
	pdf.Rect(5, 5, 200, 287, "D")
	pdf.SetLineWidth(0.2)

	pdf.SetXY(15, 10)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(100, 8, tr(r.letterhead.Website), "", 0, "L", false, 0, "")

	if r.letterhead.LogoPath != "" {
		if _, err := os.Stat(r.letterhead.LogoPath); err == nil {
			pdf.ImageOptions(r.letterhead.LogoPath, 160, 8, 35, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			if pdf.Err() {
				pdf.ClearError()
			} else {
				pdf.SetXY(15, 28)
				return
			}
		}
	}

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(160, 9)
	pdf.CellFormat(35, 10, tr(r.letterhead.Company), "", 0, "C", true, 0, "")
	pdf.SetXY(15, 28)
}

func drawKeyValue(pdf *gofpdf.Fpdf, tr func(string) string, block Block) {
	for _, row := range block.Rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(block.Widths[0], 8, tr("  "+row.Cells[0]), "1", 0, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(block.Widths[1], 8, tr("  "+row.Cells[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, block Block) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	for i, h := range block.Header {
		pdf.CellFormat(block.Widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range block.Rows {
		style, fill, border := "", false, "1"
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		switch row.Kind {
		case RowSeparator:
			border = "LR"
		case RowTax:
			fill = true
			pdf.SetFillColor(taxFillColor[0], taxFillColor[1], taxFillColor[2])
		case RowTotal:
			style, fill = "B", true
			pdf.SetFillColor(225, 225, 225)
		case RowAlert:
			pdf.SetTextColor(alertTextColor[0], alertTextColor[1], alertTextColor[2])
		}
		pdf.SetFont("Arial", style, 9)
		for i, cell := range row.Cells {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(block.Widths[i], 7, tr(cell), border, 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

// drawChart embute o PNG do gráfico; se o PNG não puder ser lido, escreve um
// aviso no lugar da imagem.
func (r *Renderer) drawChart(ctx context.Context, pdf *gofpdf.Fpdf, tr func(string) string, cb *ChartBlock, seq int) {
	res := r.charts.Render(ctx, cb.Series, cb.Options)

	name := fmt.Sprintf("chart-%d", seq)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(res.PNG))
	if pdf.Err() {
		zerolog.Ctx(ctx).Warn().Err(pdf.Error()).Str("chart", res.Title).Msg("could not embed chart image")
		pdf.ClearError()
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.MultiCell(contentWidth, 6, tr(ChartMissing), "", "L", false)
		pdf.Ln(4)
		return
	}

	pdf.ImageOptions(name, 15, 0, contentWidth, 0, true, opts, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(contentWidth, 5, tr(res.StatsLine), "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

var _ repository.ReportRenderer = (*Renderer)(nil)
