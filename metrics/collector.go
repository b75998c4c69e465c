package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/pcnroute/routing"
)

// Collector exposes routing outcomes as Prometheus metrics.
type Collector struct {
	payments      *prometheus.CounterVec
	hops          *prometheus.HistogramVec
	fees          *prometheus.HistogramVec
	stabilization prometheus.Counter
}

// NewCollector registers the pcnroute metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		payments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pcnroute_payments_total",
			Help: "Routed payments by router and outcome",
		}, []string{"router", "outcome"}),
		hops: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pcnroute_route_hops",
			Help:    "Hop count of successful routes",
			Buckets: prometheus.LinearBuckets(1, 1, 12),
		}, []string{"router"}),
		fees: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pcnroute_route_fee_msat",
			Help:    "Accumulated fee of successful routes in msat",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"router"}),
		stabilization: f.NewCounter(prometheus.CounterOpts{
			Name: "pcnroute_stabilization_messages_total",
			Help: "Landmark coordinate assignments, setup and repairs",
		}),
	}
}

// Observe records one routing result. Failures are labeled by reason.
func (c *Collector) Observe(router string, res routing.Result) {
	if !res.Success {
		c.payments.WithLabelValues(router, res.Reason.String()).Inc()
		return
	}
	c.payments.WithLabelValues(router, "success").Inc()
	c.hops.WithLabelValues(router).Observe(float64(res.Hops))
	c.fees.WithLabelValues(router).Observe(float64(res.Fee))
}

// StabilizationCounter is handed to the landmark router.
func (c *Collector) StabilizationCounter() prometheus.Counter {
	return c.stabilization
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format, e.g. for the node exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
