package store

import (
	"time"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/harness"
	"github.com/Vincent-lau/schedbench/internal/stats"
	"github.com/gofrs/uuid"
)

// Run is a finished experiment as kept in the store.
type Run struct {
	ID         string        `json:"id"`
	Created    time.Time     `json:"created"`
	Seed       uint64        `json:"seed"`
	Trials     int           `json:"trials"`
	Parallel   bool          `json:"parallel"`
	Policies   []string      `json:"policies"`
	TaskCounts []int         `json:"task_counts"`
	Dataset    string        `json:"dataset"`
	Scenarios  []RunScenario `json:"scenarios"`
	Failures   []string      `json:"failures,omitempty"`
	OutputDir  string        `json:"output_dir,omitempty"`
}

type RunScenario struct {
	Name      string        `json:"name"`
	TaskCount int           `json:"task_count"`
	Trials    int           `json:"trials"`
	Summary   stats.Summary `json:"summary"`
}

func NewID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// NewRun captures a report together with the settings it ran with.
func NewRun(rep *harness.Report, cfg *config.Config) Run {
	r := Run{
		ID:         NewID(),
		Created:    time.Now().UTC(),
		Seed:       rep.Seed,
		Trials:     rep.Trials,
		Parallel:   rep.Parallel,
		Policies:   cfg.Experiment.Policies,
		TaskCounts: cfg.Experiment.TaskCounts,
		Dataset:    cfg.Dataset.Mode,
	}

	for _, sr := range rep.Scenarios {
		r.Scenarios = append(r.Scenarios, RunScenario{
			Name:      sr.Name,
			TaskCount: sr.TaskCount,
			Trials:    len(sr.Trials),
			Summary:   sr.Summary,
		})
	}
	for _, err := range rep.Failures() {
		r.Failures = append(r.Failures, err.Error())
	}
	return r
}
