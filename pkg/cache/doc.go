// Package cache provides a generic, thread-safe LRU cache with optional
// entry expiry, always-on statistics and optional Prometheus metrics.
//
// # Quick Start
//
//	c, err := cache.NewLRU[fieldtype.Options](256,
//		cache.WithTTL[fieldtype.Options](5*time.Minute),
//		cache.WithMetrics[fieldtype.Options](registry, "options"),
//	)
//	if err != nil {
//		return err
//	}
//	c.Set("posts:page", opts)
//	opts, ok := c.Get("posts:page")
//
// # Eviction
//
// When more than maxSize entries are stored the least recently used entry
// is evicted. A maxSize of zero or less disables size eviction. With a TTL,
// entries expire that long after they were last set; expired entries are
// dropped lazily by Get and counted as misses.
//
// # Observability
//
// Statistics are always collected and available through Stats. WithMetrics
// additionally exports them as counters under the wpdlib_cache subsystem,
// labelled with the owner given to WithMetrics.
package cache
