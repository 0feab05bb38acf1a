package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/felixarntz/wpdlib/errors"
)

// lruCache evicts the least recently used entry once more than maxSize
// entries are stored.
type lruCache[V any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	items   map[string]*list.Element
	order   *list.List
	stats   *Statistics
	metrics *cacheMetrics
	evictFn EvictCallback[V]
}

// NewLRU creates an LRU cache holding at most maxSize entries. A maxSize of
// zero or less disables size eviction.
func NewLRU[V any](maxSize int, options ...Option[V]) (Cache[V], error) {
	opts := applyOptions(options...)

	var metrics *cacheMetrics
	if opts.registrar != nil {
		var err error
		metrics, err = newCacheMetrics(opts.registrar, opts.owner)
		if err != nil {
			return nil, errors.Wrap(err, "cache", "NewLRU", "metrics registration")
		}
	}

	return &lruCache[V]{
		maxSize: maxSize,
		ttl:     opts.ttl,
		now:     opts.now,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		stats:   NewStatistics(),
		metrics: metrics,
		evictFn: opts.evictCallback,
	}, nil
}

// Get implements Cache
func (c *lruCache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	element, ok := c.items[key]
	if !ok {
		c.recordMiss()
		c.mu.Unlock()
		return zero, false
	}

	e := element.Value.(*entry[V])
	if e.expired(c.now()) {
		c.remove(element)
		c.stats.expiration()
		c.recordMiss()
		if c.metrics != nil {
			c.metrics.expirations.Inc()
		}
		c.syncSize()
		c.mu.Unlock()
		c.notify([]*entry[V]{e})
		return zero, false
	}

	c.order.MoveToFront(element)
	c.stats.hit()
	if c.metrics != nil {
		c.metrics.hits.Inc()
	}
	c.mu.Unlock()
	return e.value, true
}

// Set implements Cache
func (c *lruCache[V]) Set(key string, value V) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.stats.set()
	if c.metrics != nil {
		c.metrics.sets.Inc()
	}

	if element, ok := c.items[key]; ok {
		e := element.Value.(*entry[V])
		e.value = value
		e.expiresAt = c.expiry()
		c.order.MoveToFront(element)
		c.mu.Unlock()
		return false, nil
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: c.expiry()})

	var evicted []*entry[V]
	for c.maxSize > 0 && len(c.items) > c.maxSize {
		oldest := c.order.Back()
		evicted = append(evicted, oldest.Value.(*entry[V]))
		c.remove(oldest)
		c.stats.eviction()
		if c.metrics != nil {
			c.metrics.evictions.Inc()
		}
	}
	c.syncSize()
	c.mu.Unlock()

	c.notify(evicted)
	return true, nil
}

// Delete implements Cache
func (c *lruCache[V]) Delete(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	element, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	e := element.Value.(*entry[V])
	c.remove(element)
	c.stats.delete()
	c.syncSize()
	c.mu.Unlock()

	c.notify([]*entry[V]{e})
	return true, nil
}

// Clear implements Cache
func (c *lruCache[V]) Clear() error {
	c.mu.Lock()
	var removed []*entry[V]
	if c.evictFn != nil {
		removed = make([]*entry[V], 0, len(c.items))
		for element := c.order.Back(); element != nil; element = element.Prev() {
			removed = append(removed, element.Value.(*entry[V]))
		}
	}
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.syncSize()
	c.mu.Unlock()

	c.notify(removed)
	return nil
}

// Size implements Cache
func (c *lruCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys implements Cache
func (c *lruCache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for element := c.order.Front(); element != nil; element = element.Next() {
		keys = append(keys, element.Value.(*entry[V]).key)
	}
	return keys
}

// Stats implements Cache
func (c *lruCache[V]) Stats() *Statistics {
	return c.stats
}

func (c *lruCache[V]) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *lruCache[V]) recordMiss() {
	c.stats.miss()
	if c.metrics != nil {
		c.metrics.misses.Inc()
	}
}

// must be called with mu held
func (c *lruCache[V]) remove(element *list.Element) {
	delete(c.items, element.Value.(*entry[V]).key)
	c.order.Remove(element)
}

// must be called with mu held
func (c *lruCache[V]) syncSize() {
	c.stats.updateSize(int64(len(c.items)))
	if c.metrics != nil {
		c.metrics.size.Set(float64(len(c.items)))
	}
}

// notify runs the eviction callback outside the lock
func (c *lruCache[V]) notify(removed []*entry[V]) {
	if c.evictFn == nil {
		return
	}
	for _, e := range removed {
		c.evictFn(e.key, e.value)
	}
}
