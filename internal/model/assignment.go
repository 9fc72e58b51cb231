package model

import (
	"github.com/pkg/errors"
)

// Assignment maps Task.ID to Resource.ID.
type Assignment map[int]int

// Validate checks that a is total over tasks and only names resources from
// the pool.
func (a Assignment) Validate(tasks []Task, resources []Resource) error {
	if len(a) != len(tasks) {
		return errors.Errorf("assignment covers %d tasks, workload has %d", len(a), len(tasks))
	}

	valid := make(map[int]struct{}, len(resources))
	for _, r := range resources {
		valid[r.ID] = struct{}{}
	}

	for _, t := range tasks {
		rid, ok := a[t.ID]
		if !ok {
			return errors.Errorf("task %d is not assigned", t.ID)
		}
		if _, ok := valid[rid]; !ok {
			return errors.Errorf("task %d assigned to unknown resource %d", t.ID, rid)
		}
	}
	return nil
}

// Loads counts tasks per resource id.
func (a Assignment) Loads() map[int]int {
	l := make(map[int]int)
	for _, rid := range a {
		l[rid]++
	}
	return l
}
