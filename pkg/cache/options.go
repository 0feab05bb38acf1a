package cache

import (
	"time"

	"github.com/felixarntz/wpdlib/metric"
)

// Option configures a cache.
type Option[V any] func(*cacheOptions[V])

type cacheOptions[V any] struct {
	registrar     metric.MetricsRegistrar
	owner         string
	evictCallback EvictCallback[V]
	ttl           time.Duration
	now           func() time.Time
}

// WithMetrics exports the cache statistics as Prometheus metrics registered
// with registrar under owner. It is ignored when registrar is nil or owner
// is empty.
func WithMetrics[V any](registrar metric.MetricsRegistrar, owner string) Option[V] {
	return func(opts *cacheOptions[V]) {
		if registrar != nil && owner != "" {
			opts.registrar = registrar
			opts.owner = owner
		}
	}
}

// WithEvictionCallback sets the function called when entries are removed
func WithEvictionCallback[V any](callback EvictCallback[V]) Option[V] {
	return func(opts *cacheOptions[V]) {
		opts.evictCallback = callback
	}
}

// WithTTL makes entries expire ttl after they were last set. Values of zero
// or less are ignored.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(opts *cacheOptions[V]) {
		if ttl > 0 {
			opts.ttl = ttl
		}
	}
}

// WithClock replaces the time source used for expiry
func WithClock[V any](now func() time.Time) Option[V] {
	return func(opts *cacheOptions[V]) {
		if now != nil {
			opts.now = now
		}
	}
}

func applyOptions[V any](options ...Option[V]) *cacheOptions[V] {
	opts := &cacheOptions[V]{now: time.Now}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
