package harness

import (
	"context"
	"runtime"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/policy"
	linuxproc "github.com/c9s/goprocinfo/linux"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// SubSeed derives the seed of one trial in parallel mode. It is a
// splitmix64 finaliser over the batch seed, scenario and trial index.
func SubSeed(seed uint64, scenario, run int) uint64 {
	z := seed ^ uint64(scenario)<<32 ^ uint64(run)
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Workers is the worker count used when none is configured: the processor
// count from /proc/cpuinfo, or runtime.NumCPU where that is unavailable.
func Workers() int {
	info, err := linuxproc.ReadCPUInfo("/proc/cpuinfo")
	if err != nil || len(info.Processors) == 0 {
		return runtime.NumCPU()
	}
	return len(info.Processors)
}

// runParallel gives each trial its own random source, so numbers differ
// from a sequential run with the same seed. Under batch reset the
// round-robin cursor of trial r starts where the sequential walk would have
// left it, (r-1)*n mod k.
func (h *Harness) runParallel(ctx context.Context) (*Report, error) {
	e := h.cfg.Experiment
	workers := e.Workers
	if workers == 0 {
		workers = Workers()
	}

	scs := h.Scenarios()
	results := make([][]TrialResult, len(scs))
	for i := range results {
		results[i] = make([]TrialResult, e.Trials)
	}

	HnLogger.WithFields(log.Fields{
		"seed":    e.Seed,
		"trials":  e.Trials,
		"workers": workers,
		"total":   len(scs) * e.Trials,
	}).Info("starting parallel experiment")

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, sc := range scs {
		for run := 1; run <= e.Trials; run++ {
			sc, run := sc, run
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				rng := rand.New(rand.NewSource(SubSeed(e.Seed, sc.Index, run)))
				st := policy.NewState(rng)

				cursor := func(n, k int) int {
					if e.CursorReset == config.ResetTrial {
						return 0
					}
					return (run - 1) * n % k
				}

				res, err := h.runTrial(gctx, st, sc, run, cursor)
				if err != nil {
					return err
				}
				results[sc.Index][run-1] = res
				if h.onTrial != nil {
					h.onTrial(res)
				}

				HnLogger.WithFields(log.Fields{
					"done": done.Inc(),
				}).Trace("trial finished")
				return nil
			})
		}
	}

	rep := &Report{Seed: e.Seed, Trials: e.Trials, Parallel: true}
	if err := g.Wait(); err != nil {
		return rep, err
	}

	for _, sc := range scs {
		sr := &ScenarioResult{Name: sc.Name, Policy: sc.Policy.Name(), TaskCount: sc.TaskCount}
		for _, res := range results[sc.Index] {
			sr.TaskCount = res.TaskCount
			sr.Trials = append(sr.Trials, res)
			if res.Err != nil {
				rep.failures = multierror.Append(rep.failures, res.Err)
			}
		}
		sr.finish()
		rep.Scenarios = append(rep.Scenarios, sr)
		h.logScenario(sr)
	}
	return rep, nil
}
