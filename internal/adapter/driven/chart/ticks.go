package chart

import (
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// dailyTickStep é o intervalo entre rótulos do eixo X no relatório diário.
const dailyTickStep = 3 * time.Hour

// DailyTicks returns one tick every three hours in loc. The first tick is the
// hour of the first timestamp and the last one is at or after the last
// timestamp, so the axis always brackets the data with at least two ticks.
func DailyTicks(first, last time.Time, loc *time.Location) []time.Time {
	f := first.In(loc)
	start := time.Date(f.Year(), f.Month(), f.Day(), f.Hour(), 0, 0, 0, loc)
	return bracket(start, last, func(t time.Time) time.Time { return t.Add(dailyTickStep) })
}

// WeeklyTicks returns one tick per calendar day in loc, anchored at local
// noon, from the last noon at or before the first timestamp to the first noon
// at or after the last one.
func WeeklyTicks(first, last time.Time, loc *time.Location) []time.Time {
	f := first.In(loc)
	start := time.Date(f.Year(), f.Month(), f.Day(), 12, 0, 0, 0, loc)
	if start.After(first) {
		start = start.AddDate(0, 0, -1)
	}
	return bracket(start, last, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) })
}

// bracket gera ticks a partir de start até cobrir last, com no mínimo dois.
func bracket(start, last time.Time, next func(time.Time) time.Time) []time.Time {
	ticks := []time.Time{start}
	for t := start; t.Before(last) || len(ticks) < 2; {
		t = next(t)
		ticks = append(ticks, t)
	}
	return ticks
}

// axisTicks builds the go-chart ticks for the series span.
func axisTicks(first, last time.Time, freq entity.Frequency, loc *time.Location) []gochart.Tick {
	var (
		points []time.Time
		layout string
	)
	if freq.PeriodDays() > 1 {
		points, layout = WeeklyTicks(first, last, loc), "01-02"
	} else {
		points, layout = DailyTicks(first, last, loc), "15:04"
	}

	ticks := make([]gochart.Tick, 0, len(points))
	for _, p := range points {
		ticks = append(ticks, gochart.Tick{
			Value: gochart.TimeToFloat64(p),
			Label: p.In(loc).Format(layout),
		})
	}
	return ticks
}
