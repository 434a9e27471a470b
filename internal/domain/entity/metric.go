package entity

import "time"

// MetricKind é a família de uma métrica exibida no relatório.
type MetricKind string

const (
	MetricCPU    MetricKind = "cpu"
	MetricMemory MetricKind = "memory"
	MetricDisk   MetricKind = "disk"
)

// Order returns the fixed section order CPU -> Memory -> Disk.
func (k MetricKind) Order() int {
	switch k {
	case MetricCPU:
		return 0
	case MetricMemory:
		return 1
	case MetricDisk:
		return 2
	}
	return 3
}

// Unit é a unidade de uma série.
type Unit string

const (
	UnitPercent   Unit = "Percent"
	UnitBytes     Unit = "Bytes"
	UnitGigabytes Unit = "GB"
)

// Dimension is a name/value pair that scopes a metric to one resource.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MetricSpec is one row of the metric lookup table, already bound to a resource.
type MetricSpec struct {
	Kind        MetricKind  `json:"kind"`
	Key         string      `json:"key"`
	Namespace   string      `json:"namespace"`
	MetricName  string      `json:"metric_name"`
	Dimensions  []Dimension `json:"dimensions"`
	SourceUnit  Unit        `json:"source_unit"`
	DisplayUnit Unit        `json:"display_unit"`
	Section     string      `json:"section"`
	Label       string      `json:"label"`
	// FreeSpace marks metrics that report free capacity instead of usage.
	FreeSpace bool `json:"free_space,omitempty"`
}

// Datapoint é uma amostra bruta retornada pela API de monitoramento.
type Datapoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricSeries é a série normalizada, ordenada por timestamp.
type MetricSeries struct {
	Timestamps []time.Time `json:"timestamps"`
	Values     []float64   `json:"values"`
	Average    float64     `json:"average"`
	Min        float64     `json:"min"`
	Max        float64     `json:"max"`
	Unit       Unit        `json:"unit"`
}

// IsEmpty reports whether the series has no datapoints.
func (s MetricSeries) IsEmpty() bool {
	return len(s.Values) == 0
}

// MetricResult pairs a spec with the series fetched for it.
type MetricResult struct {
	Spec   MetricSpec   `json:"spec"`
	Series MetricSeries `json:"series"`
}

// ResourceMetrics agrupa o descritor e as métricas coletadas de um recurso.
type ResourceMetrics struct {
	Descriptor ResourceDescriptor `json:"descriptor"`
	Metrics    []MetricResult     `json:"metrics"`
}

// HasData reports whether at least one metric carries datapoints.
func (r ResourceMetrics) HasData() bool {
	for _, m := range r.Metrics {
		if !m.Series.IsEmpty() {
			return true
		}
	}
	return false
}

// TimeWindow is the [Start, End) interval a metric query covers.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
