package harness

import (
	"context"
	"time"

	"github.com/Vincent-lau/schedbench/internal/metrics"
	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/Vincent-lau/schedbench/internal/policy"
	"github.com/Vincent-lau/schedbench/internal/stats"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// cursorStart gives the round-robin cursor a trial starts from when it
// cannot inherit it from the previous trial.
type cursorStart func(taskCount, resourceCount int) int

// runTrial runs workload, placement, execution and aggregation in order.
// A non-nil error aborts the whole run; executor failures and executor output
// that does not match the trial are only recorded in the result.
func (h *Harness) runTrial(ctx context.Context, st *policy.State, sc Scenario, run int, cursor cursorStart) (TrialResult, error) {
	start := time.Now()
	res := TrialResult{Scenario: sc.Name, TaskCount: sc.TaskCount, Run: run}

	lengths, err := h.source.Lengths(sc.TaskCount, st.Rand)
	if err != nil {
		return res, errors.Wrapf(err, "scenario %s trial %d: workload", sc.Name, run)
	}
	if len(lengths) == 0 {
		return res, errors.Wrapf(model.ErrEmptyWorkload, "scenario %s trial %d", sc.Name, run)
	}
	// trace sources decide the size themselves
	res.TaskCount = len(lengths)

	tasks := model.NewTasks(lengths, h.cfg.Task.FileSize, h.cfg.Task.OutputSize)
	resources := h.pool.Resources

	if cursor != nil {
		st.Cursor = policy.NewCursor(cursor(len(tasks), len(resources)))
	}

	a, err := sc.Policy.Assign(st, tasks, resources)
	if err != nil {
		return res, errors.Wrapf(err, "scenario %s trial %d: assign", sc.Name, run)
	}
	if err := a.Validate(tasks, resources); err != nil {
		return res, errors.Wrapf(err, "scenario %s trial %d: policy %s", sc.Name, run, sc.Policy.Name())
	}

	records, err := h.exec.Execute(ctx, a, resources, tasks)
	res.Duration = time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return h.failTrial(res, sc, err), nil
	}
	if err := model.ValidateRecords(records, tasks, resources); err != nil {
		return h.failTrial(res, sc, err), nil
	}

	res.Row = stats.Reduce(records, len(resources), h.pool.HostCount(), h.pool.PowerPerHost)
	metrics.ObserveTrial(sc.Name, res.TaskCount, true, res.Duration.Seconds(), res.Row.Makespan, res.Row.ImbalanceDegree)

	HnLogger.WithFields(log.Fields{
		"scenario":   sc.Name,
		"task count": res.TaskCount,
		"trial":      run,
		"makespan":   res.Row.Makespan,
		"imbalance":  res.Row.ImbalanceDegree,
	}).Debug("trial done")
	return res, nil
}

// failTrial records an executor failure; the run goes on with the next trial.
func (h *Harness) failTrial(res TrialResult, sc Scenario, err error) TrialResult {
	res.Err = errors.Wrapf(err, "scenario %s task count %d trial %d", sc.Name, res.TaskCount, res.Run)
	HnLogger.WithFields(log.Fields{
		"scenario": sc.Name,
		"trial":    res.Run,
		"error":    err,
	}).Error("trial failed")
	metrics.ObserveTrial(sc.Name, res.TaskCount, false, res.Duration.Seconds(), 0, 0)
	return res
}
