// Package analysis reduces raw datapoints to statistics and derives the
// threshold remarks printed next to each chart.
package analysis

import (
	"sort"
	"time"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// BytesPerGigabyte is the divisor used for byte -> GB conversion (2^30).
const BytesPerGigabyte = 1024 * 1024 * 1024

// Normalize converts raw datapoints into a MetricSeries for the given spec.
// Datapoints are sorted by timestamp, converted to the display unit and only
// then reduced to average/min/max.
func Normalize(points []entity.Datapoint, spec entity.MetricSpec) entity.MetricSeries {
	unit := spec.DisplayUnit
	if unit == "" {
		unit = spec.SourceUnit
	}
	series := entity.MetricSeries{
		Timestamps: []time.Time{},
		Values:     []float64{},
		Unit:       unit,
	}
	if len(points) == 0 {
		return series
	}

	sorted := make([]entity.Datapoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	convert := spec.SourceUnit == entity.UnitBytes && spec.DisplayUnit == entity.UnitGigabytes

	series.Timestamps = make([]time.Time, 0, len(sorted))
	series.Values = make([]float64, 0, len(sorted))
	for _, p := range sorted {
		v := p.Value
		if convert {
			v = v / BytesPerGigabyte
		}
		series.Timestamps = append(series.Timestamps, p.Timestamp)
		series.Values = append(series.Values, v)
	}

	series.Average, series.Min, series.Max = Stats(series.Values)
	return series
}

// Stats returns average, min and max of values. Empty input yields zeros.
func Stats(values []float64) (avg, minV, maxV float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	minV, maxV = values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	avg = sum / float64(len(values))
	// Floating point summation can push the mean a hair outside [min, max].
	if avg < minV {
		avg = minV
	}
	if avg > maxV {
		avg = maxV
	}
	return avg, minV, maxV
}
