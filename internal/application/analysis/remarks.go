package analysis

import (
	"strconv"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// Level classifica a média de uma série frente aos limites fixos.
type Level string

const (
	LevelHigh   Level = "high"
	LevelLow    Level = "low"
	LevelNormal Level = "normal"
)

// Fixed business thresholds. They are not configurable per call.
const (
	CPUHigh = 85.0
	CPULow  = 15.0

	MemoryHigh = 90.0
	MemoryLow  = 50.0

	DiskHigh = 85.0
	DiskLow  = 30.0

	// Managed databases report available capacity in GB.
	DatabaseMemoryLowGB  = 1.0
	DatabaseStorageLowGB = 5.0
)

// Remark is the narrative printed next to a metric section.
type Remark struct {
	Level Level
	Text  string
}

// Classify returns the level for an average against (high, low) cutoffs.
// The comparisons are strict: a value equal to a cutoff is normal.
func Classify(avg, high, low float64) Level {
	switch {
	case avg > high:
		return LevelHigh
	case avg < low:
		return LevelLow
	default:
		return LevelNormal
	}
}

// RemarkFor derives the remark for one metric section from its average.
func RemarkFor(spec entity.MetricSpec, avg float64) Remark {
	switch spec.Kind {
	case entity.MetricCPU:
		return cpuRemark(avg)
	case entity.MetricMemory:
		if spec.DisplayUnit == entity.UnitGigabytes {
			if avg < DatabaseMemoryLowGB {
				return Remark{LevelLow, "Memory availability is low. Consider upgrading the instance."}
			}
			return Remark{LevelNormal, "Memory availability is normal."}
		}
		switch Classify(avg, MemoryHigh, MemoryLow) {
		case LevelHigh:
			return Remark{LevelHigh, "Memory utilization is high. Consider upgrading the instance."}
		case LevelLow:
			return Remark{LevelLow, "Average utilisation is low. No action needed at the time."}
		}
		return Remark{LevelNormal, "Average utilisation is normal. No action needed at the time."}
	case entity.MetricDisk:
		if spec.DisplayUnit == entity.UnitGigabytes {
			if avg < DatabaseStorageLowGB {
				return Remark{LevelLow, "Storage availability is low. Consider increasing storage."}
			}
			return Remark{LevelNormal, "Storage availability is normal."}
		}
		used := avg
		if spec.FreeSpace {
			used = 100 - avg
		}
		switch Classify(used, DiskHigh, DiskLow) {
		case LevelHigh:
			return Remark{LevelHigh, "Average Disk utilisation is high. Explore possibility of optimising the resources."}
		case LevelLow:
			return Remark{LevelLow, "Average Disk utilisation is low. No action needed at the time."}
		}
		return Remark{LevelNormal, "Average Disk utilisation is Normal."}
	}
	return cpuRemark(avg)
}

func cpuRemark(avg float64) Remark {
	switch Classify(avg, CPUHigh, CPULow) {
	case LevelHigh:
		return Remark{LevelHigh, "Average utilisation is high. Explore possibility of optimising the resources."}
	case LevelLow:
		return Remark{LevelLow, "Average utilisation is low. No action needed at the time."}
	}
	return Remark{LevelNormal, "Average utilisation is normal. No action needed at the time."}
}

// FormatAverage renders the value shown in the average mini-table.
func FormatAverage(avg float64, unit entity.Unit) string {
	if unit == entity.UnitGigabytes {
		return formatFloat(avg) + " GB"
	}
	return formatFloat(avg) + "%"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
