package stats

import (
	"math"

	"github.com/Vincent-lau/schedbench/internal/model"
)

// Reduce folds the completion records of one trial into a MetricRow. Only
// successful records count. Every ratio is 0 when its denominator is 0.
func Reduce(records []model.CompletionRecord, resourceCount, hostCount int, powerPerHost float64) model.MetricRow {
	var (
		row       model.MetricRow
		n         int
		sumStart  float64
		sumFinish float64
		perRes    = make(map[int]float64)
	)

	for _, r := range records {
		if r.Status != model.Success {
			continue
		}
		n++
		row.TotalCPUTime += r.ExecTime
		row.TotalWaitTime += math.Max(0, r.StartTime-r.SubmissionTime)
		sumStart += r.StartTime
		sumFinish += r.FinishTime
		row.Makespan = math.Max(row.Makespan, r.FinishTime)
		perRes[r.ResourceID] += r.ExecTime
	}

	if n > 0 {
		row.AvgStartTime = sumStart / float64(n)
		row.AvgExecTime = row.TotalCPUTime / float64(n)
		row.AvgFinishTime = sumFinish / float64(n)
	}
	if row.Makespan > 0 {
		row.Throughput = float64(n) / row.Makespan
		if resourceCount > 0 {
			row.ResourceUtilization = row.TotalCPUTime / (float64(resourceCount) * row.Makespan)
		}
	}

	row.ImbalanceDegree = imbalance(perRes, resourceCount)
	row.TotalEnergy = powerPerHost * float64(hostCount) * row.Makespan
	return row
}

// imbalance is (max - min) / avg over per-resource exec sums. min and max
// only look at resources that ran something, avg divides by resourceCount.
func imbalance(perRes map[int]float64, resourceCount int) float64 {
	if len(perRes) == 0 || resourceCount <= 0 {
		return 0
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	total := 0.0
	for _, v := range perRes {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		total += v
	}

	avg := total / float64(resourceCount)
	if avg == 0 {
		return 0
	}
	return (hi - lo) / avg
}
