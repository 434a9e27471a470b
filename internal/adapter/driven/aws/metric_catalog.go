package aws

import (
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

const (
	namespaceEC2     = "AWS/EC2"
	namespaceRDS     = "AWS/RDS"
	namespaceCWAgent = "CWAgent"
)

// windowsDrives são as letras sondadas em instâncias Windows.
var windowsDrives = []string{"C:", "D:", "E:"}

// MetricSpecs resolves the metric lookup table for a resource, keyed by
// service type and, for compute, operating system. The result is ordered
// CPU -> Memory -> Disk.
func (p *Provider) MetricSpecs(desc entity.ResourceDescriptor) []entity.MetricSpec {
	return MetricCatalog(desc)
}

// MetricCatalog is the pure lookup behind Provider.MetricSpecs.
func MetricCatalog(desc entity.ResourceDescriptor) []entity.MetricSpec {
	switch desc.ServiceType {
	case entity.ServiceEC2:
		return computeSpecs(desc)
	case entity.ServiceRDS:
		return databaseSpecs(desc)
	}
	return nil
}

func computeSpecs(desc entity.ResourceDescriptor) []entity.MetricSpec {
	instance := []entity.Dimension{{Name: "InstanceId", Value: desc.ID}}

	specs := []entity.MetricSpec{{
		Kind:        entity.MetricCPU,
		Key:         "cpu",
		Namespace:   namespaceEC2,
		MetricName:  "CPUUtilization",
		Dimensions:  instance,
		SourceUnit:  entity.UnitPercent,
		DisplayUnit: entity.UnitPercent,
		Section:     "CPU Utilization",
		Label:       "CPU Utilization (%)",
	}}

	if desc.OSFamily() == entity.OSWindows {
		specs = append(specs, entity.MetricSpec{
			Kind:        entity.MetricMemory,
			Key:         "memory",
			Namespace:   namespaceCWAgent,
			MetricName:  "Memory % Committed Bytes In Use",
			Dimensions:  instance,
			SourceUnit:  entity.UnitPercent,
			DisplayUnit: entity.UnitPercent,
			Section:     "Memory Utilization",
			Label:       "Memory Utilization (%)",
		})
		for _, drive := range windowsDrives {
			specs = append(specs, entity.MetricSpec{
				Kind:        entity.MetricDisk,
				Key:         "disk " + drive[:1],
				Namespace:   namespaceCWAgent,
				MetricName:  "LogicalDisk % Free Space",
				Dimensions:  withDimension(instance, "instance", drive),
				SourceUnit:  entity.UnitPercent,
				DisplayUnit: entity.UnitPercent,
				Section:     "Disk " + drive + " Free Space",
				Label:       "Disk " + drive + " Free Space (%)",
				FreeSpace:   true,
			})
		}
		return specs
	}

	return append(specs,
		entity.MetricSpec{
			Kind:        entity.MetricMemory,
			Key:         "memory",
			Namespace:   namespaceCWAgent,
			MetricName:  "mem_used_percent",
			Dimensions:  instance,
			SourceUnit:  entity.UnitPercent,
			DisplayUnit: entity.UnitPercent,
			Section:     "Memory Utilization",
			Label:       "Memory Utilization (%)",
		},
		entity.MetricSpec{
			Kind:        entity.MetricDisk,
			Key:         "disk",
			Namespace:   namespaceCWAgent,
			MetricName:  "disk_used_percent",
			Dimensions:  withDimension(instance, "path", "/"),
			SourceUnit:  entity.UnitPercent,
			DisplayUnit: entity.UnitPercent,
			Section:     "Disk Utilization",
			Label:       "Disk Utilization (%)",
		},
	)
}

func databaseSpecs(desc entity.ResourceDescriptor) []entity.MetricSpec {
	db := []entity.Dimension{{Name: "DBInstanceIdentifier", Value: desc.ID}}
	return []entity.MetricSpec{
		{
			Kind:        entity.MetricCPU,
			Key:         "cpu",
			Namespace:   namespaceRDS,
			MetricName:  "CPUUtilization",
			Dimensions:  db,
			SourceUnit:  entity.UnitPercent,
			DisplayUnit: entity.UnitPercent,
			Section:     "CPU Utilization",
			Label:       "CPU Utilization (%)",
		},
		{
			Kind:        entity.MetricMemory,
			Key:         "memory",
			Namespace:   namespaceRDS,
			MetricName:  "FreeableMemory",
			Dimensions:  db,
			SourceUnit:  entity.UnitBytes,
			DisplayUnit: entity.UnitGigabytes,
			Section:     "Freeable Memory",
			Label:       "Freeable Memory (GB)",
		},
		{
			Kind:        entity.MetricDisk,
			Key:         "storage",
			Namespace:   namespaceRDS,
			MetricName:  "FreeStorageSpace",
			Dimensions:  db,
			SourceUnit:  entity.UnitBytes,
			DisplayUnit: entity.UnitGigabytes,
			Section:     "Free Storage Space",
			Label:       "Free Storage Space (GB)",
		},
	}
}

func withDimension(base []entity.Dimension, name, value string) []entity.Dimension {
	out := make([]entity.Dimension, 0, len(base)+1)
	out = append(out, base...)
	return append(out, entity.Dimension{Name: name, Value: value})
}
