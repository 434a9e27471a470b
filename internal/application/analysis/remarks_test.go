package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

func TestRemarkFor_CPUBoundaries(t *testing.T) {
	cpu := entity.MetricSpec{Kind: entity.MetricCPU, DisplayUnit: entity.UnitPercent}

	tests := []struct {
		avg  float64
		want Level
	}{
		{85.0, LevelNormal},
		{85.01, LevelHigh},
		{15.0, LevelNormal},
		{14.99, LevelLow},
		{50, LevelNormal},
		{0, LevelLow},
		{100, LevelHigh},
	}
	for _, tt := range tests {
		r := RemarkFor(cpu, tt.avg)
		assert.Equal(t, tt.want, r.Level, "avg=%v", tt.avg)
		assert.NotEmpty(t, r.Text)
	}
}

func TestRemarkFor_CPUText(t *testing.T) {
	cpu := entity.MetricSpec{Kind: entity.MetricCPU, DisplayUnit: entity.UnitPercent}
	assert.Contains(t, RemarkFor(cpu, 90).Text, "high")
	assert.Contains(t, RemarkFor(cpu, 5).Text, "low")
	assert.Contains(t, RemarkFor(cpu, 50).Text, "normal")
}

func TestRemarkFor_ComputeMemory(t *testing.T) {
	mem := entity.MetricSpec{Kind: entity.MetricMemory, DisplayUnit: entity.UnitPercent}
	assert.Equal(t, LevelHigh, RemarkFor(mem, 90.5).Level)
	assert.Equal(t, LevelNormal, RemarkFor(mem, 90).Level)
	assert.Equal(t, LevelNormal, RemarkFor(mem, 50).Level)
	assert.Equal(t, LevelLow, RemarkFor(mem, 49.9).Level)
}

func TestRemarkFor_ComputeDisk(t *testing.T) {
	used := entity.MetricSpec{Kind: entity.MetricDisk, DisplayUnit: entity.UnitPercent}
	assert.Equal(t, LevelHigh, RemarkFor(used, 86).Level)
	assert.Equal(t, LevelNormal, RemarkFor(used, 85).Level)
	assert.Equal(t, LevelLow, RemarkFor(used, 29).Level)

	free := used
	free.FreeSpace = true
	// 10% free means 90% used
	assert.Equal(t, LevelHigh, RemarkFor(free, 10).Level)
	assert.Equal(t, LevelLow, RemarkFor(free, 80).Level)
	assert.Equal(t, LevelNormal, RemarkFor(free, 50).Level)
}

func TestRemarkFor_DatabaseCapacity(t *testing.T) {
	mem := entity.MetricSpec{Kind: entity.MetricMemory, SourceUnit: entity.UnitBytes, DisplayUnit: entity.UnitGigabytes}
	assert.Equal(t, LevelLow, RemarkFor(mem, 0.5).Level)
	assert.Equal(t, LevelNormal, RemarkFor(mem, 1.0).Level)

	storage := entity.MetricSpec{Kind: entity.MetricDisk, SourceUnit: entity.UnitBytes, DisplayUnit: entity.UnitGigabytes}
	assert.Equal(t, LevelLow, RemarkFor(storage, 4.9).Level)
	assert.Equal(t, LevelNormal, RemarkFor(storage, 5).Level)
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "42.50%", FormatAverage(42.5, entity.UnitPercent))
	assert.Equal(t, "3.25 GB", FormatAverage(3.25, entity.UnitGigabytes))
}
