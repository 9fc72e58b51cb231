package policy

import (
	"math"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/model"
	log "github.com/sirupsen/logrus"
)

func init() {
	register("mows", func(o Options) Policy { return &mows{cfg: o.MOWS} })
}

// mows is the weighted multi-objective scheduler. For every task it scans
// the whole pool and keeps the resource with the smallest decision distance
//
//	wPerf * (max(0, comp - mips) + max(0, comm - bw)) + wSec * |secDemand - secCap|
//
// where all terms are normalised to [0, 1]. The security demand is drawn once
// per task and a security capability once per candidate, both from st.Rand.
type mows struct {
	cfg config.MOWS
}

func (m *mows) Name() string {
	return "mows"
}

func norm(v, max float64) float64 {
	return math.Min(1, v/max)
}

func (m *mows) Assign(st *State, tasks []model.Task, resources []model.Resource) (model.Assignment, error) {
	if err := checkInput(tasks, resources); err != nil {
		return nil, err
	}

	a := make(model.Assignment, len(tasks))
	for _, t := range tasks {
		a[t.ID] = m.pick(st, t, resources).ID
	}

	PlLogger.WithFields(log.Fields{
		"tasks":     len(tasks),
		"resources": len(resources),
	}).Trace("mows placement done")
	return a, nil
}

func (m *mows) pick(st *State, t model.Task, resources []model.Resource) model.Resource {
	comp := norm(float64(t.Length), m.cfg.MaxTaskLength)
	comm := norm(t.AuxSize, m.cfg.MaxCommSize)
	secDemand := st.Rand.Float64()

	best := -1
	bestScore := math.Inf(1)
	for i, r := range resources {
		mips := norm(r.ComputeCapacity, m.cfg.MaxVMCapacity)
		bw := norm(r.BandwidthCapacity, m.cfg.MaxVMBandwidth)
		secCap := st.Rand.Float64()

		perf := math.Max(0, comp-mips) + math.Max(0, comm-bw)
		score := m.cfg.WPerformance*perf + m.cfg.WSecurity*math.Abs(secDemand-secCap)

		// strict comparison keeps the first resource on ties
		if score < bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 {
		return resources[0]
	}
	return resources[best]
}
