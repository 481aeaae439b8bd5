package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotificationMetrics covers persistence and cross-instance fan-out of notifications.
type NotificationMetrics struct {
	Created   *prometheus.CounterVec
	Published *prometheus.CounterVec
	Delivered prometheus.Counter
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	m := &NotificationMetrics{
		Created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Notifications persisted, by kind.",
		}, []string{"kind"}),
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "published_total",
			Help:      "Notification bus publishes, by result.",
		}, []string{"result"}),
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "delivered_total",
			Help:      "Notification bus messages handed to the local hub.",
		}),
	}

	reg.MustRegister(m.Created, m.Published, m.Delivered)
	return m
}
