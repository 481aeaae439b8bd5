package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks the permission cache tiers.
type CacheMetrics struct {
	Hits          *prometheus.CounterVec
	Misses        *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "permission_cache",
			Name:      "hits_total",
			Help:      "Permission cache hits, by layer (memory, redis).",
		}, []string{"layer"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "permission_cache",
			Name:      "misses_total",
			Help:      "Permission cache misses, by layer.",
		}, []string{"layer"}),
		Invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "permission_cache",
			Name:      "invalidations_total",
			Help:      "Permission cache invalidations, by origin (local, remote).",
		}, []string{"origin"}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Invalidations)
	return m
}
