package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyWorkload = errors.New("workload has no tasks")
	ErrEmptyPool     = errors.New("resource pool has no resources")
)

// Task is one unit of work (a cloudlet). Length is in abstract instructions,
// AuxSize is the transfer demand used as the communication proxy.
type Task struct {
	ID         int
	Length     int64
	AuxSize    float64
	OutputSize float64
}

func (t Task) String() string {
	return fmt.Sprintf("Task %d: %d", t.ID, t.Length)
}

// NewTasks builds tasks with sequential ids from the given lengths.
func NewTasks(lengths []int64, auxSize, outputSize float64) []Task {
	ts := make([]Task, len(lengths))
	for i, l := range lengths {
		ts[i] = Task{
			ID:         i,
			Length:     l,
			AuxSize:    auxSize,
			OutputSize: outputSize,
		}
	}
	return ts
}

// MaxLength returns the largest task length, 0 for no tasks.
func MaxLength(ts []Task) int64 {
	var m int64
	for _, t := range ts {
		if t.Length > m {
			m = t.Length
		}
	}
	return m
}
