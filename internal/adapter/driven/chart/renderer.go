// Package chart desenha as séries normalizadas como imagens PNG para o PDF.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

const (
	defaultWidth  = 900
	defaultHeight = 380
)

// Options descreve o gráfico de uma métrica.
type Options struct {
	ResourceName string
	Label        string
	Frequency    entity.Frequency
}

// Result is always a usable PNG. Fallback is set when the placeholder image
// was produced instead of the chart.
type Result struct {
	PNG       []byte
	Title     string
	StatsLine string
	Fallback  bool
}

// Renderer draws metric series with go-chart in a fixed display timezone.
type Renderer struct {
	loc    *time.Location
	width  int
	height int
}

// NewRenderer creates a renderer that labels the time axis in loc.
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc, width: defaultWidth, height: defaultHeight}
}

// Location returns the display timezone.
func (r *Renderer) Location() *time.Location {
	return r.loc
}

// Render draws the series. Any failure or panic inside the chart library is
// logged and replaced by a fallback image carrying an error marker.
func (r *Renderer) Render(ctx context.Context, series entity.MetricSeries, opts Options) Result {
	res := Result{StatsLine: StatsLine(series)}
	if series.IsEmpty() {
		res.Title = fmt.Sprintf("%s: %s", opts.ResourceName, opts.Label)
		res.PNG = fallbackImage("No data available", r.width, r.height)
		res.Fallback = true
		return res
	}
	res.Title = Title(series, opts, r.loc)

	png, err := r.draw(series, opts, res.Title, res.StatsLine)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("resource", opts.ResourceName).
			Str("metric", opts.Label).
			Msg("chart rendering failed, using fallback image")
		res.PNG = fallbackImage("Chart Error: "+opts.Label, r.width, r.height)
		res.Fallback = true
		return res
	}
	res.PNG = png
	return res
}

func (r *Renderer) draw(series entity.MetricSeries, opts Options, title, stats string) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("chart panic: %v", rec)
		}
	}()

	first := series.Timestamps[0]
	last := series.Timestamps[len(series.Timestamps)-1]
	ticks := axisTicks(first, last, opts.Frequency, r.loc)

	average := make([]float64, len(series.Values))
	for i := range average {
		average[i] = series.Average
	}

	graph := gochart.Chart{
		Title:      title,
		TitleStyle: gochart.Style{FontSize: 11},
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:  fmt.Sprintf("Time (%s)", first.In(r.loc).Format("MST")),
			// go-chart deriva o range do eixo X dos ticks
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  opts.Label,
			Range: yRange(series),
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    opts.Label,
				XValues: series.Timestamps,
				YValues: series.Values,
				Style:   gochart.Style{StrokeColor: gochart.ColorBlue, StrokeWidth: 2},
			},
			gochart.TimeSeries{
				Name:    "Average",
				XValues: series.Timestamps,
				YValues: average,
				Style: gochart.Style{
					StrokeColor:     drawing.ColorRed,
					StrokeWidth:     1,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{
		gochart.Legend(&graph),
		statsText(stats),
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// statsText escreve a linha Min/Max/Avg no canto do gráfico.
func statsText(text string) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, defaults gochart.Style) {
		gochart.Draw.Text(r, text, canvas.Left+8, canvas.Top+14, gochart.Style{
			FontSize:  9,
			FontColor: drawing.ColorBlack,
		})
	}
}

func yRange(series entity.MetricSeries) gochart.Range {
	if series.Unit == entity.UnitPercent {
		return &gochart.ContinuousRange{Min: 0, Max: maxFloat(100, series.Max)}
	}
	top := series.Max * 1.2
	if top <= 0 {
		top = 1
	}
	return &gochart.ContinuousRange{Min: minFloat(0, series.Min), Max: top}
}

// Title embeds the observed first and last timestamps in the display timezone.
func Title(series entity.MetricSeries, opts Options, loc *time.Location) string {
	if series.IsEmpty() {
		return fmt.Sprintf("%s: %s", opts.ResourceName, opts.Label)
	}
	layout := "2006-01-02 15:04 MST"
	if opts.Frequency.PeriodDays() > 1 {
		layout = "2006-01-02"
	}
	start := series.Timestamps[0].In(loc).Format(layout)
	end := series.Timestamps[len(series.Timestamps)-1].In(loc).Format(layout)
	return fmt.Sprintf("%s: %s (%s to %s)", opts.ResourceName, opts.Label, start, end)
}

// StatsLine formats the Min/Max/Avg triple; percent metrics carry a % suffix.
func StatsLine(series entity.MetricSeries) string {
	suffix := ""
	if series.Unit == entity.UnitPercent {
		suffix = "%"
	}
	return fmt.Sprintf("Min: %.2f%s | Max: %.2f%s | Avg: %.2f%s",
		series.Min, suffix, series.Max, suffix, series.Average, suffix)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
