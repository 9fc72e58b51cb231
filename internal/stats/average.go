package stats

import (
	"github.com/Vincent-lau/schedbench/internal/model"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Average is the field-wise mean of the well formed rows. Rows with NaN,
// infinite or negative fields are skipped with a warning and left out of the
// divisor. ok is false when no row is usable.
func Average(rows []model.MetricRow) (avg model.MetricRow, n int, ok bool) {
	var sum [model.MetricCount]float64

	for i, r := range rows {
		if !r.Finite() {
			log.WithFields(log.Fields{
				"row":    i,
				"values": r.Values(),
			}).Warn("skipping malformed metric row")
			continue
		}
		for j, v := range r.Values() {
			sum[j] += v
		}
		n++
	}

	if n == 0 {
		return model.MetricRow{}, 0, false
	}

	vals := make([]float64, model.MetricCount)
	for j := range sum {
		vals[j] = sum[j] / float64(n)
	}
	return model.RowFromValues(vals), n, true
}

// Summary holds the spread of a scenario's trials.
type Summary struct {
	Mean   model.MetricRow `json:"mean" yaml:"mean"`
	StdDev model.MetricRow `json:"std_dev" yaml:"std_dev"`
	N      int             `json:"n" yaml:"n"`
}

// Summarize computes mean and sample standard deviation per metric over the
// well formed rows. StdDev is 0 with fewer than two rows.
func Summarize(rows []model.MetricRow) (Summary, bool) {
	cols := make([][]float64, model.MetricCount)
	for _, r := range rows {
		if !r.Finite() {
			continue
		}
		for j, v := range r.Values() {
			cols[j] = append(cols[j], v)
		}
	}

	n := len(cols[0])
	if n == 0 {
		return Summary{}, false
	}

	mean := make([]float64, model.MetricCount)
	std := make([]float64, model.MetricCount)
	for j, c := range cols {
		if n > 1 {
			mean[j], std[j] = stat.MeanStdDev(c, nil)
		} else {
			mean[j] = c[0]
		}
	}

	return Summary{
		Mean:   model.RowFromValues(mean),
		StdDev: model.RowFromValues(std),
		N:      n,
	}, true
}
