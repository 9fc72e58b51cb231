package stats

import (
	"math"
	"testing"

	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(task, res int, start, finish float64) model.CompletionRecord {
	return model.CompletionRecord{
		TaskID:     task,
		ResourceID: res,
		StartTime:  start,
		FinishTime: finish,
		ExecTime:   finish - start,
		Status:     model.Success,
	}
}

func TestReduceBasic(t *testing.T) {
	recs := []model.CompletionRecord{
		rec(0, 0, 1, 3),
		rec(1, 1, 1, 5),
	}

	row := Reduce(recs, 2, 1, 200)
	assert.InDelta(t, 6.0, row.TotalCPUTime, 1e-9)
	assert.InDelta(t, 2.0, row.TotalWaitTime, 1e-9)
	assert.InDelta(t, 1.0, row.AvgStartTime, 1e-9)
	assert.InDelta(t, 3.0, row.AvgExecTime, 1e-9)
	assert.InDelta(t, 4.0, row.AvgFinishTime, 1e-9)
	assert.InDelta(t, 5.0, row.Makespan, 1e-9)
	assert.InDelta(t, 0.4, row.Throughput, 1e-9)
	// sums 2 and 4, avg 3
	assert.InDelta(t, 2.0/3.0, row.ImbalanceDegree, 1e-9)
	assert.InDelta(t, 0.6, row.ResourceUtilization, 1e-9)
	assert.InDelta(t, 1000.0, row.TotalEnergy, 1e-9)
}

func TestReduceIsPure(t *testing.T) {
	recs := []model.CompletionRecord{rec(0, 0, 0, 3), rec(1, 2, 0, 7), rec(2, 0, 0, 1)}
	a := Reduce(recs, 3, 1, 200)
	b := Reduce(recs, 3, 1, 200)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("reduce not idempotent:\n%s", diff)
	}
}

func TestReduceIgnoresFailures(t *testing.T) {
	failed := rec(1, 1, 0, 100)
	failed.Status = model.Failed

	row := Reduce([]model.CompletionRecord{rec(0, 0, 0, 4), failed}, 2, 1, 1)
	assert.InDelta(t, 4.0, row.Makespan, 1e-9)
	assert.InDelta(t, 4.0, row.TotalCPUTime, 1e-9)
	assert.InDelta(t, 0.25, row.Throughput, 1e-9)
}

func TestReduceEmptyIsZero(t *testing.T) {
	failed := rec(0, 0, 0, 4)
	failed.Status = model.Failed

	for _, recs := range [][]model.CompletionRecord{nil, {failed}} {
		row := Reduce(recs, 3, 2, 200)
		assert.Equal(t, model.MetricRow{}, row)
		assert.True(t, row.Finite())
	}
}

func TestReduceZeroMakespan(t *testing.T) {
	row := Reduce([]model.CompletionRecord{rec(0, 0, 0, 0)}, 3, 1, 200)
	assert.Equal(t, 0.0, row.Throughput)
	assert.Equal(t, 0.0, row.ResourceUtilization)
	assert.Equal(t, 0.0, row.ImbalanceDegree)
	assert.False(t, math.IsNaN(row.ImbalanceDegree))
}

func TestReduceNoResources(t *testing.T) {
	row := Reduce([]model.CompletionRecord{rec(0, 0, 0, 2)}, 0, 1, 200)
	assert.Equal(t, 0.0, row.ResourceUtilization)
	assert.Equal(t, 0.0, row.ImbalanceDegree)
}

func TestBalancedLoadHasNoImbalance(t *testing.T) {
	// 6 equal tasks round robin over 3 resources, finishing in assignment order
	var recs []model.CompletionRecord
	for i := 0; i < 6; i++ {
		recs = append(recs, model.CompletionRecord{
			TaskID:     i,
			ResourceID: i % 3,
			StartTime:  float64(i),
			FinishTime: float64(i) + 10,
			ExecTime:   10,
			Status:     model.Success,
		})
	}

	row := Reduce(recs, 3, 1, 200)
	assert.Equal(t, 0.0, row.ImbalanceDegree)
	assert.InDelta(t, 60.0, row.TotalCPUTime, 1e-9)
}

func TestImbalanceMinOverUsedResources(t *testing.T) {
	// resource 2 is idle; min is taken over 0 and 1 only
	recs := []model.CompletionRecord{rec(0, 0, 0, 2), rec(1, 1, 0, 4)}
	row := Reduce(recs, 3, 1, 0)
	assert.InDelta(t, 1.0, row.ImbalanceDegree, 1e-9)
}

func TestAverage(t *testing.T) {
	rows := []model.MetricRow{{Makespan: 10}, {Makespan: 20}, {Makespan: 30}}
	avg, n, ok := Average(rows)
	require.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, 20.0, avg.Makespan)
}

func TestAverageSkipsMalformed(t *testing.T) {
	rows := []model.MetricRow{
		{Makespan: 10},
		{Makespan: math.NaN()},
		{Makespan: 30, Throughput: math.Inf(1)},
		{Makespan: 20},
	}
	avg, n, ok := Average(rows)
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, 15.0, avg.Makespan)
}

func TestAverageNoRows(t *testing.T) {
	_, n, ok := Average(nil)
	assert.False(t, ok)
	assert.Zero(t, n)

	_, _, ok = Average([]model.MetricRow{{Makespan: math.NaN()}})
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	s, ok := Summarize([]model.MetricRow{{Makespan: 10}, {Makespan: 20}, {Makespan: 30}})
	require.True(t, ok)
	assert.Equal(t, 3, s.N)
	assert.InDelta(t, 20.0, s.Mean.Makespan, 1e-9)
	assert.InDelta(t, 10.0, s.StdDev.Makespan, 1e-9)

	s, ok = Summarize([]model.MetricRow{{Makespan: 7}})
	require.True(t, ok)
	assert.Equal(t, 7.0, s.Mean.Makespan)
	assert.Equal(t, 0.0, s.StdDev.Makespan)

	_, ok = Summarize(nil)
	assert.False(t, ok)
}
