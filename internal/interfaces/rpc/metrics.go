package rpcinterface

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tdex-network/tdex-signer/internal/core/application"
)

const (
	transportHTTP = "http"
	transportWS   = "ws"
)

// Metrics holds the prometheus collectors of the rpc interface.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	WsConnections   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics registers the rpc collectors, along with go and process ones,
// on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetricsWithRegistry(registry, registry)
}

// NewMetricsWithRegistry registers the rpc collectors on the given
// registerer. Nil arguments fall back to the prometheus defaults.
func NewMetricsWithRegistry(
	registry prometheus.Registerer, gatherer prometheus.Gatherer,
) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	factory := promauto.With(registry)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signer_rpc_requests_total",
				Help: "The total number of rpc requests by transport, method and result code",
			},
			[]string{"transport", "method", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signer_rpc_request_duration_seconds",
				Help:    "The time taken to serve rpc requests, consent dialog included",
				Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15, 30, 60},
			},
			[]string{"transport", "method"},
		),
		WsConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signer_ws_connections",
			Help: "The current number of open websocket connections",
		}),
		gatherer: gatherer,
	}
}

func (m *Metrics) observe(
	transport, method string, err *rpcError, elapsed time.Duration,
) {
	if m == nil {
		return
	}
	// Methods are caller supplied, anything unknown is grouped to keep the
	// label cardinality bounded.
	if method != application.MethodPersonalSign {
		method = "other"
	}
	m.RequestsTotal.WithLabelValues(transport, method, codeLabel(err)).Inc()
	m.RequestDuration.WithLabelValues(transport, method).Observe(elapsed.Seconds())
}

func (m *Metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
