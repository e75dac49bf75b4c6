// Package prometheus exports jsonlddb operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := jsonlddbprom.New(reg, "jsonlddb")
//	db := jsonlddb.New(jsonlddb.WithMetricsCollector(collector))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prometheus

import (
	"time"

	"github.com/hupe1980/jsonlddb"
	"github.com/prometheus/client_golang/prometheus"
)

var _ jsonlddb.MetricsCollector = (*Collector)(nil)

// Collector implements jsonlddb.MetricsCollector with Prometheus metrics.
type Collector struct {
	latency *prometheus.HistogramVec
	ops     *prometheus.CounterVec
	triples *prometheus.CounterVec
}

// New creates a Collector and registers its metrics with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of database operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total database operations",
		}, []string{"op", "status"}),
		triples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_total",
			Help:      "Total triples inserted or removed",
		}, []string{"op"}),
	}

	for _, m := range []prometheus.Collector{c.latency, c.ops, c.triples} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.latency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordInsert implements jsonlddb.MetricsCollector.
func (c *Collector) RecordInsert(triples int, d time.Duration, err error) {
	c.observe("insert", d, err)
	if err == nil {
		c.triples.WithLabelValues("insert").Add(float64(triples))
	}
}

// RecordRemove implements jsonlddb.MetricsCollector.
func (c *Collector) RecordRemove(triples int, d time.Duration, err error) {
	c.observe("remove", d, err)
	if err == nil {
		c.triples.WithLabelValues("remove").Add(float64(triples))
	}
}

// RecordFrame implements jsonlddb.MetricsCollector.
func (c *Collector) RecordFrame(d time.Duration, err error) {
	c.observe("frame", d, err)
}
