package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	/* trial metrics */
	TrialsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedbench_trials_total",
		Help: "Number of trials run, by scenario and outcome",
	}, []string{"scenario", "status"})

	TrialDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:                        "schedbench_trial_duration_seconds",
		Help:                        "Wall clock time of one trial in seconds",
		NativeHistogramBucketFactor: 1.1,
	}, []string{"scenario"})

	/* simulated results */
	Makespan = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "schedbench_makespan_seconds",
		Help: "Simulated makespan of the last trial",
	}, []string{"scenario", "task_count"})

	ImbalanceDegree = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "schedbench_imbalance_degree",
		Help: "Imbalance degree of the last trial",
	}, []string{"scenario", "task_count"})

	metricsList = []prometheus.Collector{
		TrialsTotal,
		TrialDuration,

		Makespan,
		ImbalanceDegree,
	}
)

var registerMetrics sync.Once

func Register() {
	registerMetrics.Do(func() {
		prometheus.MustRegister(metricsList...)
	})
}

// ObserveTrial records a finished trial. makespan and imbalance are ignored
// for failed trials.
func ObserveTrial(scenario string, taskCount int, ok bool, seconds, makespan, imbalance float64) {
	status := "success"
	if !ok {
		status = "failed"
	}
	TrialsTotal.WithLabelValues(scenario, status).Inc()
	TrialDuration.WithLabelValues(scenario).Observe(seconds)

	if ok {
		n := strconv.Itoa(taskCount)
		Makespan.WithLabelValues(scenario, n).Set(makespan)
		ImbalanceDegree.WithLabelValues(scenario, n).Set(imbalance)
	}
}

// Start serves /metrics on addr until the process exits.
func Start(addr string) {
	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.WithFields(log.Fields{
		"addr":     addr,
		"endpoint": "/metrics",
	}).Info("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Error("metrics server stopped")
	}
}
