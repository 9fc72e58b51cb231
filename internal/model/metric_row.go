package model

import "math"

// MetricNames is the column order of a MetricRow in every report.
var MetricNames = []string{
	"totalCpuTime",
	"totalWaitTime",
	"avgStartTime",
	"avgExecutionTime",
	"avgFinishTime",
	"throughput",
	"makespan",
	"imbalanceDegree",
	"resourceUtilization",
	"totalEnergy",
}

// MetricCount is len(MetricNames).
const MetricCount = 10

// MetricRow is the metric vector of one trial.
type MetricRow struct {
	TotalCPUTime        float64 `json:"total_cpu_time" yaml:"total_cpu_time"`
	TotalWaitTime       float64 `json:"total_wait_time" yaml:"total_wait_time"`
	AvgStartTime        float64 `json:"avg_start_time" yaml:"avg_start_time"`
	AvgExecTime         float64 `json:"avg_exec_time" yaml:"avg_exec_time"`
	AvgFinishTime       float64 `json:"avg_finish_time" yaml:"avg_finish_time"`
	Throughput          float64 `json:"throughput" yaml:"throughput"`
	Makespan            float64 `json:"makespan" yaml:"makespan"`
	ImbalanceDegree     float64 `json:"imbalance_degree" yaml:"imbalance_degree"`
	ResourceUtilization float64 `json:"resource_utilization" yaml:"resource_utilization"`
	TotalEnergy         float64 `json:"total_energy" yaml:"total_energy"`
}

// Values returns the fields in MetricNames order.
func (m MetricRow) Values() []float64 {
	return []float64{
		m.TotalCPUTime,
		m.TotalWaitTime,
		m.AvgStartTime,
		m.AvgExecTime,
		m.AvgFinishTime,
		m.Throughput,
		m.Makespan,
		m.ImbalanceDegree,
		m.ResourceUtilization,
		m.TotalEnergy,
	}
}

// RowFromValues is the inverse of Values. It panics if len(v) != MetricCount.
func RowFromValues(v []float64) MetricRow {
	if len(v) != MetricCount {
		panic("metric row needs exactly 10 values")
	}
	return MetricRow{
		TotalCPUTime:        v[0],
		TotalWaitTime:       v[1],
		AvgStartTime:        v[2],
		AvgExecTime:         v[3],
		AvgFinishTime:       v[4],
		Throughput:          v[5],
		Makespan:            v[6],
		ImbalanceDegree:     v[7],
		ResourceUtilization: v[8],
		TotalEnergy:         v[9],
	}
}

// Finite reports whether every field is a finite, non-negative number.
func (m MetricRow) Finite() bool {
	for _, v := range m.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}
