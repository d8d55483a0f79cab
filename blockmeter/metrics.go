package blockmeter

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// bytesBuckets spans a single small block up to a large index array.
var bytesBuckets = []float64{
	1 << 6,
	1 << 8,
	1 << 9, // default block
	1 << 10,
	1 << 12,
	1 << 14,
	1 << 16,
	1 << 20,
	// anything larger than 1 MiB will be bucketed together
}

func newCounterMetric(namespace, name string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      fmt.Sprintf("# of times a %s occurred", name),
	})
}

type metrics struct {
	allocations,
	frees,
	failures prometheus.Counter

	requested prometheus.Histogram
	inUse     prometheus.Gauge
}

func (m *metrics) Initialize(
	namespace string,
	registerer prometheus.Registerer,
) error {
	m.allocations = newCounterMetric(namespace, "allocation")
	m.frees = newCounterMetric(namespace, "free")
	m.failures = newCounterMetric(namespace, "allocation_failure")
	m.requested = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "requested_bytes",
		Help:      "size of each allocation request in bytes",
		Buckets:   bytesBuckets,
	})
	m.inUse = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bytes_in_use",
		Help:      "bytes held by live blocks and index arrays",
	})

	return errors.Join(
		registerer.Register(m.allocations),
		registerer.Register(m.frees),
		registerer.Register(m.failures),
		registerer.Register(m.requested),
		registerer.Register(m.inUse),
	)
}
