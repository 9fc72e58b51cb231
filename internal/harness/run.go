package harness

import (
	"context"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/policy"
	"github.com/Vincent-lau/schedbench/internal/workload"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

// Run executes every scenario. Sequential runs share one random source
// seeded once for the whole batch, so results only reproduce with the same
// seed, trial count, policies and task counts. Dataset files are read anew
// on every call.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	workload.ResetCache()

	if h.cfg.Experiment.Parallel {
		return h.runParallel(ctx)
	}

	e := h.cfg.Experiment
	rep := &Report{Seed: e.Seed, Trials: e.Trials}
	st := policy.NewState(rand.New(rand.NewSource(e.Seed)))

	HnLogger.WithFields(log.Fields{
		"seed":      e.Seed,
		"trials":    e.Trials,
		"policies":  e.Policies,
		"resources": len(h.pool.Resources),
	}).Info("starting experiment")

	for _, sc := range h.Scenarios() {
		// the cursor lives for the whole scenario batch unless reset per trial
		st.Cursor.Reset()
		sr := &ScenarioResult{Name: sc.Name, Policy: sc.Policy.Name(), TaskCount: sc.TaskCount}

		for run := 1; run <= e.Trials; run++ {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if e.CursorReset == config.ResetTrial {
				st.Cursor.Reset()
			}

			res, err := h.runTrial(ctx, st, sc, run, nil)
			if err != nil {
				return rep, err
			}
			h.record(rep, sr, res)
		}

		sr.finish()
		rep.Scenarios = append(rep.Scenarios, sr)
		h.logScenario(sr)
	}
	return rep, nil
}

func (h *Harness) record(rep *Report, sr *ScenarioResult, res TrialResult) {
	sr.TaskCount = res.TaskCount
	sr.Trials = append(sr.Trials, res)
	if res.Err != nil {
		rep.failures = multierror.Append(rep.failures, res.Err)
	}
	if h.onTrial != nil {
		h.onTrial(res)
	}
}

func (h *Harness) logScenario(sr *ScenarioResult) {
	HnLogger.WithFields(log.Fields{
		"scenario":   sr.Name,
		"task count": sr.TaskCount,
		"trials":     len(sr.Trials),
		"averaged":   sr.N,
		"makespan":   sr.Average.Makespan,
		"imbalance":  sr.Average.ImbalanceDegree,
	}).Info("scenario done")
}
