package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the simulator. The struct is
// injected into the components that record measurements.
type Metrics struct {
	rpcCallsTotal       *prometheus.CounterVec
	broadcastsTotal     *prometheus.CounterVec
	broadcastDeliveries prometheus.Counter
	wsSubscribers       prometheus.GaugeFunc
}

// New creates the collectors and registers them. If registry is nil,
// prometheus.DefaultRegisterer is used. subscriberCount reports the current
// number of live real-time subscribers.
func New(registry prometheus.Registerer, subscriberCount func() int) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simulator_rpc_calls_total",
				Help: "Total number of RPC calls by method and status",
			},
			[]string{"method", "status"},
		),
		broadcastsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simulator_broadcasts_total",
				Help: "Total number of events broadcast by event type",
			},
			[]string{"event"},
		),
		broadcastDeliveries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "simulator_broadcast_deliveries_total",
				Help: "Total number of per-subscriber event deliveries",
			},
		),
		wsSubscribers: factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "simulator_websocket_subscribers",
				Help: "Current number of live websocket subscribers",
			},
			func() float64 { return float64(subscriberCount()) },
		),
	}
}

// ObserveRPCCall records one RPC call outcome.
func (m *Metrics) ObserveRPCCall(method string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.rpcCallsTotal.WithLabelValues(method, status).Inc()
}

// ObserveBroadcast records one broadcast pass.
func (m *Metrics) ObserveBroadcast(eventType string, delivered int) {
	if m == nil {
		return
	}
	m.broadcastsTotal.WithLabelValues(eventType).Inc()
	m.broadcastDeliveries.Add(float64(delivered))
}
