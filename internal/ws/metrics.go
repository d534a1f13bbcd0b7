package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkline_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkline_ws_rooms",
			Help: "Current number of registered rooms.",
		},
	)
	wsMessagesRelayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inkline_ws_messages_relayed_total",
			Help: "Total messages fanned out to clients.",
		},
	)
	wsMessagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inkline_ws_messages_dropped_total",
			Help: "Total messages dropped because a client's send buffer was full.",
		},
	)
	wsMessagesRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inkline_ws_messages_rejected_total",
			Help: "Total inbound messages dropped as malformed or unrecognized.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsRooms, wsMessagesRelayed, wsMessagesDropped, wsMessagesRejected)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setRooms(count int) {
	wsRooms.Set(float64(count))
}

func addRelayed(count int) {
	if count > 0 {
		wsMessagesRelayed.Add(float64(count))
	}
}

func addDropped(count int) {
	if count > 0 {
		wsMessagesDropped.Add(float64(count))
	}
}

func incRejected() {
	wsMessagesRejected.Inc()
}
