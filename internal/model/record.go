package model

import (
	"math"

	"github.com/pkg/errors"
)

var ErrInvalidRecords = errors.New("invalid completion records")

type Status int

const (
	Success Status = iota
	Failed
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// CompletionRecord is what the executor reports for one task of a trial.
type CompletionRecord struct {
	TaskID         int
	ResourceID     int
	SubmissionTime float64
	StartTime      float64
	FinishTime     float64
	ExecTime       float64
	Status         Status
}

// ValidateRecords checks executor output against the trial it ran: one
// record per task, only pool resources, and 0 <= start <= finish for
// successful records.
func ValidateRecords(records []CompletionRecord, tasks []Task, resources []Resource) error {
	if len(records) != len(tasks) {
		return errors.Wrapf(ErrInvalidRecords, "%d records for %d tasks", len(records), len(tasks))
	}

	pool := make(map[int]struct{}, len(resources))
	for _, r := range resources {
		pool[r.ID] = struct{}{}
	}
	pending := make(map[int]struct{}, len(tasks))
	for _, t := range tasks {
		pending[t.ID] = struct{}{}
	}

	for _, rec := range records {
		if _, ok := pending[rec.TaskID]; !ok {
			return errors.Wrapf(ErrInvalidRecords, "unexpected or repeated task %d", rec.TaskID)
		}
		delete(pending, rec.TaskID)

		if _, ok := pool[rec.ResourceID]; !ok {
			return errors.Wrapf(ErrInvalidRecords, "task %d on unknown resource %d", rec.TaskID, rec.ResourceID)
		}
		if rec.Status != Success {
			continue
		}
		if math.IsNaN(rec.StartTime) || math.IsNaN(rec.FinishTime) || math.IsInf(rec.FinishTime, 0) ||
			rec.StartTime < 0 || rec.FinishTime < rec.StartTime {
			return errors.Wrapf(ErrInvalidRecords, "task %d runs from %v to %v", rec.TaskID, rec.StartTime, rec.FinishTime)
		}
	}
	return nil
}
