package metrics

import "github.com/prometheus/client_golang/prometheus"

type SchedulerMetrics struct {
	Runs     *prometheus.CounterVec
	Duration prometheus.Histogram
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activity_scheduler",
			Name:      "runs_total",
			Help:      "Activity list runs, by result.",
		}, []string{"result"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "activity_scheduler",
			Name:      "scan_duration_seconds",
			Help:      "Duration of one scan over due activity lists.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.Runs, m.Duration)
	return m
}
