package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chathub_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsMessagesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chathub_ws_messages_delivered_total",
			Help: "Total websocket frames queued for delivery to clients.",
		},
	)
	wsMessagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chathub_ws_messages_dropped_total",
			Help: "Total websocket frames dropped due to full or closed connections.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsMessagesDelivered, wsMessagesDropped)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func countDelivered() {
	wsMessagesDelivered.Inc()
}

func countDropped() {
	wsMessagesDropped.Inc()
}
