package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixarntz/wpdlib/metric"
)

type cacheMetrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	sets        prometheus.Counter
	evictions   prometheus.Counter
	expirations prometheus.Counter
	size        prometheus.Gauge
}

func newCacheMetrics(registrar metric.MetricsRegistrar, owner string) (*cacheMetrics, error) {
	labels := prometheus.Labels{"owner": owner}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "wpdlib",
			Subsystem:   "cache",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	m := &cacheMetrics{
		hits:        counter("hits_total", "Total number of cache hits"),
		misses:      counter("misses_total", "Total number of cache misses"),
		sets:        counter("sets_total", "Total number of cache set operations"),
		evictions:   counter("evictions_total", "Total number of entries evicted for size"),
		expirations: counter("expirations_total", "Total number of entries dropped after their TTL"),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "wpdlib",
			Subsystem:   "cache",
			Name:        "size",
			Help:        "Current number of entries in the cache",
			ConstLabels: labels,
		}),
	}

	collectors := []struct {
		name string
		c    prometheus.Collector
	}{
		{"cache_hits", m.hits},
		{"cache_misses", m.misses},
		{"cache_sets", m.sets},
		{"cache_evictions", m.evictions},
		{"cache_expirations", m.expirations},
		{"cache_size", m.size},
	}
	for _, c := range collectors {
		if err := registrar.Register(owner, c.name, c.c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
