package harness

import (
	"fmt"
	"time"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/Vincent-lau/schedbench/internal/policy"
	"github.com/Vincent-lau/schedbench/internal/pool"
	"github.com/Vincent-lau/schedbench/internal/simulator"
	"github.com/Vincent-lau/schedbench/internal/stats"
	"github.com/Vincent-lau/schedbench/internal/workload"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

var HnLogger = log.WithFields(log.Fields{"prefix": "harness"})

// Scenario is one (policy, task count) pair. TaskCount is 0 for trace
// workloads until the first trial has read the trace.
type Scenario struct {
	Index     int
	Name      string
	Policy    policy.Policy
	TaskCount int
}

// TrialResult is the outcome of one trial. Err is set when the executor
// failed; Row is meaningless then.
type TrialResult struct {
	Scenario  string
	TaskCount int
	Run       int
	Row       model.MetricRow
	Duration  time.Duration
	Err       error
}

type ScenarioResult struct {
	Name      string
	Policy    string
	TaskCount int
	Trials    []TrialResult
	// Average is only meaningful when HasAverage is set
	Average    model.MetricRow
	N          int
	HasAverage bool
	Summary    stats.Summary
}

// Rows returns the metric rows of the successful trials.
func (s *ScenarioResult) Rows() []model.MetricRow {
	rows := make([]model.MetricRow, 0, len(s.Trials))
	for _, t := range s.Trials {
		if t.Err == nil {
			rows = append(rows, t.Row)
		}
	}
	return rows
}

func (s *ScenarioResult) finish() {
	rows := s.Rows()
	s.Average, s.N, s.HasAverage = stats.Average(rows)
	s.Summary, _ = stats.Summarize(rows)

	if !s.HasAverage {
		HnLogger.WithFields(log.Fields{
			"scenario":   s.Name,
			"task count": s.TaskCount,
		}).Warn("no usable trial, scenario has no average")
	}
}

type Report struct {
	Seed      uint64
	Trials    int
	Parallel  bool
	Scenarios []*ScenarioResult

	failures *multierror.Error
}

// Err collects every failed trial, nil if all succeeded.
func (r *Report) Err() error {
	return r.failures.ErrorOrNil()
}

func (r *Report) Failures() []error {
	if r.failures == nil {
		return nil
	}
	return r.failures.Errors
}

type Harness struct {
	cfg      *config.Config
	source   workload.Source
	pool     *pool.Pool
	exec     simulator.Executor
	policies []policy.Policy
	onTrial  func(TrialResult)
}

// New checks the whole configuration up front: unknown policies and an empty
// pool are reported before any trial runs.
func New(cfg *config.Config, opts ...Option) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := NewOptions(opts...)

	p, err := pool.Build(cfg.Topology)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		cfg:     cfg,
		pool:    p,
		exec:    o.Executor,
		source:  o.Source,
		onTrial: o.OnTrial,
	}
	if h.exec == nil {
		h.exec = simulator.NewTimeShared(cfg.Executor.StartDelay)
	}
	if h.source == nil {
		if h.source, err = workload.New(cfg); err != nil {
			return nil, err
		}
	}

	popts := policy.Options{MOWS: cfg.MOWS}
	for _, name := range cfg.Experiment.Policies {
		pl, err := policy.New(name, popts)
		if err != nil {
			return nil, err
		}
		h.policies = append(h.policies, pl)
	}
	return h, nil
}

func (h *Harness) Pool() *pool.Pool {
	return h.pool
}

// Scenarios lists scenarios in run order: every policy for the first task
// count, then every policy for the next. The order fixes the draws each
// trial gets from the shared random source.
func (h *Harness) Scenarios() []Scenario {
	counts := h.cfg.Experiment.TaskCounts
	if h.source.Fixed() {
		counts = []int{0}
	}

	var scs []Scenario
	for _, n := range counts {
		for _, p := range h.policies {
			scs = append(scs, Scenario{
				Index:     len(scs),
				Name:      scenarioName(p.Name(), h.cfg.Dataset.Label),
				Policy:    p,
				TaskCount: n,
			})
		}
	}
	return scs
}

func scenarioName(policy, label string) string {
	if label == "" {
		return policy
	}
	return fmt.Sprintf("%s_%s", policy, label)
}
