package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// registryMetrics holds Prometheus metrics for registry operations.
type registryMetrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	derivations prometheus.Counter
	failures    prometheus.Counter
	evictions   prometheus.Counter
	size        prometheus.Gauge
	domains     prometheus.Gauge
}

// newRegistryMetrics creates the metrics and registers them with reg.
func newRegistryMetrics(reg prometheus.Registerer, namespace string) (*registryMetrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      name,
			Help:      help,
		})
	}

	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      name,
			Help:      help,
		})
	}

	m := &registryMetrics{
		hits:        counter("hits_total", "Total number of model cache hits"),
		misses:      counter("misses_total", "Total number of model cache misses"),
		derivations: counter("derivations_total", "Total number of successful model derivations"),
		failures:    counter("derivation_failures_total", "Total number of failed model derivations"),
		evictions:   counter("evictions_total", "Total number of models evicted from the cache"),
		size:        gauge("cached_models", "Current number of cached models"),
		domains:     gauge("domains", "Current number of registered domain models"),
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.derivations, m.failures, m.evictions, m.size, m.domains} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *registryMetrics) recordHit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *registryMetrics) recordMiss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *registryMetrics) recordDerivation(ok bool) {
	if m == nil {
		return
	}

	if ok {
		m.derivations.Inc()
	} else {
		m.failures.Inc()
	}
}

func (m *registryMetrics) recordEvictions(n int) {
	if m != nil && n > 0 {
		m.evictions.Add(float64(n))
	}
}

func (m *registryMetrics) updateSize(size int) {
	if m != nil {
		m.size.Set(float64(size))
	}
}

func (m *registryMetrics) updateDomains(n int) {
	if m != nil {
		m.domains.Set(float64(n))
	}
}
