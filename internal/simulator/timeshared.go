package simulator

import (
	"context"
	"math"
	"sort"

	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/Workiva/go-datastructures/queue"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var SimLogger = log.WithFields(log.Fields{"prefix": "simulator"})

// TimeShared is a processor sharing executor. Every task is submitted at 0
// and starts at StartDelay on its resource. The k active tasks of a resource
// split mips*pes equally, with no task running faster than one PE.
type TimeShared struct {
	StartDelay float64
}

func NewTimeShared(startDelay float64) *TimeShared {
	return &TimeShared{StartDelay: startDelay}
}

type job struct {
	task model.Task
}

type vmState struct {
	res  model.Resource
	jobs []job // by length, then task id
	next int   // first unfinished job
	// work done by every unfinished job so far
	progress float64
	now      float64
}

func (v *vmState) rate() float64 {
	k := len(v.jobs) - v.next
	pes := v.res.PEs
	if pes < 1 {
		pes = 1
	}
	return v.res.ComputeCapacity * float64(pes) / math.Max(float64(k), float64(pes))
}

// nextFinish is when the shortest remaining job completes.
func (v *vmState) nextFinish() float64 {
	j := v.jobs[v.next]
	return v.now + (float64(j.task.Length)-v.progress)/v.rate()
}

// event is the next completion on one resource.
type event struct {
	finish float64
	vm     *vmState
}

func (e *event) Compare(other queue.Item) int {
	o := other.(*event)
	switch {
	case e.finish < o.finish:
		return -1
	case e.finish > o.finish:
		return 1
	}

	a, b := e.vm.res.ID, o.vm.res.ID
	if a == b {
		a, b = e.vm.jobs[e.vm.next].task.ID, o.vm.jobs[o.vm.next].task.ID
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Execute returns records in completion order.
func (ts *TimeShared) Execute(ctx context.Context, a model.Assignment, resources []model.Resource, tasks []model.Task) ([]model.CompletionRecord, error) {
	vms := make(map[int]*vmState, len(resources))
	for _, r := range resources {
		if r.ComputeCapacity <= 0 {
			return nil, errors.Errorf("resource %d has no compute capacity", r.ID)
		}
		vms[r.ID] = &vmState{res: r, now: ts.StartDelay}
	}

	for _, t := range tasks {
		rid, ok := a[t.ID]
		if !ok {
			return nil, errors.Errorf("task %d is not assigned", t.ID)
		}
		vm, ok := vms[rid]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownResource, "task %d on resource %d", t.ID, rid)
		}
		vm.jobs = append(vm.jobs, job{task: t})
	}

	pq := queue.NewPriorityQueue(len(resources), true)
	for _, r := range resources {
		vm := vms[r.ID]
		if len(vm.jobs) == 0 {
			continue
		}
		sort.SliceStable(vm.jobs, func(i, j int) bool {
			if vm.jobs[i].task.Length != vm.jobs[j].task.Length {
				return vm.jobs[i].task.Length < vm.jobs[j].task.Length
			}
			return vm.jobs[i].task.ID < vm.jobs[j].task.ID
		})
		if err := pq.Put(&event{finish: vm.nextFinish(), vm: vm}); err != nil {
			return nil, errors.Wrap(err, "queueing completion")
		}
	}

	records := make([]model.CompletionRecord, 0, len(tasks))
	for !pq.Empty() {
		if len(records)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		items, err := pq.Get(1)
		if err != nil {
			return nil, errors.Wrap(err, "next completion")
		}
		ev := items[0].(*event)
		vm := ev.vm
		j := vm.jobs[vm.next]

		vm.now = ev.finish
		vm.progress = float64(j.task.Length)
		vm.next++

		records = append(records, model.CompletionRecord{
			TaskID:     j.task.ID,
			ResourceID: vm.res.ID,
			StartTime:  ts.StartDelay,
			FinishTime: ev.finish,
			ExecTime:   ev.finish - ts.StartDelay,
			Status:     model.Success,
		})

		if vm.next < len(vm.jobs) {
			if err := pq.Put(&event{finish: vm.nextFinish(), vm: vm}); err != nil {
				return nil, errors.Wrap(err, "queueing completion")
			}
		}
	}

	SimLogger.WithFields(log.Fields{
		"tasks":   len(records),
		"vms":     len(resources),
		"elapsed": lastFinish(records),
	}).Trace("simulation finished")
	return records, nil
}

func lastFinish(rs []model.CompletionRecord) float64 {
	if len(rs) == 0 {
		return 0
	}
	return rs[len(rs)-1].FinishTime
}
