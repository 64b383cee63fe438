package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "marketstream"

var (
	framesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "websocket",
		Name:      "frames_sent_total",
		Help:      "Frames written to websocket connections.",
	}, []string{"connection", "type"})

	framesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "websocket",
		Name:      "frames_received_total",
		Help:      "Frames read from websocket connections.",
	}, []string{"connection", "type"})

	transportErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "websocket",
		Name:      "errors_total",
		Help:      "Per frame failures swallowed by the connection pump.",
	}, []string{"connection", "operation"})

	activeConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "websocket",
		Name:      "connections",
		Help:      "Open websocket connections.",
	}, []string{"connection"})
)
