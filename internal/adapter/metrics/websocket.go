package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebSocketMetrics holds Prometheus metrics for the notification sockets.
type WebSocketMetrics struct {
	ActiveConnections  prometheus.Gauge
	Rejected           *prometheus.CounterVec
	MessagesSent       prometheus.Counter
	SlowClientsDropped prometheus.Counter
}

func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "rejected_total",
			Help:      "WebSocket upgrades rejected, by reason.",
		}, []string{"reason"}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_sent_total",
			Help:      "Total number of messages queued to WebSocket clients.",
		}),
		SlowClientsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "slow_clients_dropped_total",
			Help:      "Clients disconnected because their send buffer was full.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.Rejected, m.MessagesSent, m.SlowClientsDropped)
	return m
}
