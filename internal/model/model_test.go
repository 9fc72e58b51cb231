package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTasks(t *testing.T) {
	ts := NewTasks([]int64{10, 30, 20}, 300, 300)
	assert.Len(t, ts, 3)
	for i, task := range ts {
		assert.Equal(t, i, task.ID)
		assert.Equal(t, 300.0, task.AuxSize)
	}
	assert.Equal(t, int64(30), MaxLength(ts))
	assert.Equal(t, int64(0), MaxLength(nil))
}

func TestAssignmentValidate(t *testing.T) {
	tasks := NewTasks([]int64{1, 2}, 0, 0)
	rs := []Resource{{ID: 0}, {ID: 1}}

	assert.NoError(t, Assignment{0: 1, 1: 1}.Validate(tasks, rs))
	assert.Error(t, Assignment{0: 1}.Validate(tasks, rs))
	assert.Error(t, Assignment{0: 1, 2: 0}.Validate(tasks, rs))
	assert.Error(t, Assignment{0: 1, 1: 5}.Validate(tasks, rs))

	assert.Equal(t, map[int]int{1: 2}, Assignment{0: 1, 1: 1}.Loads())
}

func TestMetricRowValues(t *testing.T) {
	v := make([]float64, MetricCount)
	for i := range v {
		v[i] = float64(i + 1)
	}
	row := RowFromValues(v)
	assert.Equal(t, 7.0, row.Makespan)
	assert.Equal(t, v, row.Values())
	assert.Len(t, MetricNames, MetricCount)

	assert.Panics(t, func() { RowFromValues(v[:3]) })
}

func TestMetricRowFinite(t *testing.T) {
	assert.True(t, MetricRow{}.Finite())
	assert.False(t, MetricRow{Throughput: math.NaN()}.Finite())
	assert.False(t, MetricRow{Makespan: math.Inf(1)}.Finite())
	assert.False(t, MetricRow{TotalEnergy: -1}.Finite())
}

func TestValidateRecords(t *testing.T) {
	tasks := NewTasks([]int64{10, 20, 30}, 300, 300)
	rs := []Resource{{ID: 0}, {ID: 1}}
	good := func() []CompletionRecord {
		return []CompletionRecord{
			{TaskID: 2, ResourceID: 1, StartTime: 0, FinishTime: 3, Status: Success},
			{TaskID: 0, ResourceID: 0, StartTime: 0, FinishTime: 1, Status: Success},
			{TaskID: 1, ResourceID: 0, StartTime: 1, FinishTime: 1, Status: Success},
		}
	}
	assert.NoError(t, ValidateRecords(good(), tasks, rs))

	tests := map[string]func([]CompletionRecord) []CompletionRecord{
		"missing task":     func(r []CompletionRecord) []CompletionRecord { return r[:2] },
		"extra record":     func(r []CompletionRecord) []CompletionRecord { return append(r, r[0]) },
		"duplicate task":   func(r []CompletionRecord) []CompletionRecord { r[1].TaskID = 2; return r },
		"unknown task":     func(r []CompletionRecord) []CompletionRecord { r[1].TaskID = 7; return r },
		"unknown resource": func(r []CompletionRecord) []CompletionRecord { r[0].ResourceID = 99; return r },
		"finish before start": func(r []CompletionRecord) []CompletionRecord {
			r[0].StartTime, r[0].FinishTime = 5, 1
			return r
		},
		"negative start": func(r []CompletionRecord) []CompletionRecord { r[0].StartTime = -1; return r },
		"nan finish":     func(r []CompletionRecord) []CompletionRecord { r[0].FinishTime = math.NaN(); return r },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateRecords(mutate(good()), tasks, rs)
			assert.ErrorIs(t, err, ErrInvalidRecords)
		})
	}

	// failed records carry no usable times
	r := good()
	r[0].Status = Failed
	r[0].StartTime, r[0].FinishTime = 5, 1
	assert.NoError(t, ValidateRecords(r, tasks, rs))
}
