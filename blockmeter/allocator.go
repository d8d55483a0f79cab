// Package blockmeter wraps a segdeque.Allocator with Prometheus metrics.
package blockmeter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lucasgdosr/segdeque"
)

var _ segdeque.Allocator = (*Allocator)(nil)

// Allocator records every request it forwards to the wrapped Allocator.
type Allocator struct {
	metrics
	allocator segdeque.Allocator
}

// New registers the metrics under namespace and returns the wrapper.
func New(
	namespace string,
	registerer prometheus.Registerer,
	allocator segdeque.Allocator,
) (*Allocator, error) {
	a := &Allocator{allocator: allocator}
	return a, a.metrics.Initialize(namespace, registerer)
}

func (a *Allocator) Allocate(bytes int) error {
	a.requested.Observe(float64(bytes))
	if err := a.allocator.Allocate(bytes); err != nil {
		a.failures.Inc()
		return err
	}
	a.allocations.Inc()
	a.inUse.Add(float64(bytes))
	return nil
}

func (a *Allocator) Free(bytes int) {
	a.allocator.Free(bytes)
	a.frees.Inc()
	a.inUse.Sub(float64(bytes))
}
