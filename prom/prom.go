// Package prom exports splitter metrics to Prometheus.
//
//	c := prom.NewCollector("groupcv")
//	if err := c.Register(prometheus.DefaultRegisterer); err != nil {
//	    return err
//	}
//	s, _ := groupcv.New(2, groupcv.WithMetricsCollector(c))
package prom

import (
	"errors"
	"time"

	"github.com/hupe1980/groupcv"
	"github.com/prometheus/client_golang/prometheus"
)

var _ groupcv.MetricsCollector = (*Collector)(nil)

// Collector implements groupcv.MetricsCollector with Prometheus metrics.
type Collector struct {
	combinations *prometheus.CounterVec
	folds        prometheus.Counter
	enumerations prometheus.Counter
	duration     prometheus.Histogram
	lastVisited  prometheus.Gauge
}

// NewCollector creates a Collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		combinations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combinations_total",
			Help:      "Group combinations enumerated, by filter result",
		}, []string{"result"}),
		folds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folds_total",
			Help:      "Folds handed to callers",
		}),
		enumerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enumerations_total",
			Help:      "Completed or abandoned fold enumerations",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enumeration_duration_seconds",
			Help:      "Wall time of one fold enumeration",
			Buckets:   prometheus.DefBuckets,
		}),
		lastVisited: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_enumeration_combinations",
			Help:      "Combinations visited by the most recent enumeration",
		}),
	}
}

// Register registers all metrics with reg. Metrics that are already
// registered by an identical collector are reused.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range c.metrics() {
		if err := reg.Register(m); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	if err := c.Register(reg); err != nil {
		panic(err)
	}
}

func (c *Collector) metrics() []prometheus.Collector {
	return []prometheus.Collector{c.combinations, c.folds, c.enumerations, c.duration, c.lastVisited}
}

// RecordCombination implements groupcv.MetricsCollector.
func (c *Collector) RecordCombination(accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	c.combinations.WithLabelValues(result).Inc()
}

// RecordEnumeration implements groupcv.MetricsCollector.
func (c *Collector) RecordEnumeration(visited, yielded, _ int, d time.Duration) {
	c.enumerations.Inc()
	c.folds.Add(float64(yielded))
	c.duration.Observe(d.Seconds())
	c.lastVisited.Set(float64(visited))
}
