package cache

import (
	"sync"
	"sync/atomic"
)

// Statistics tracks cache usage.
type Statistics struct {
	hits        atomic.Int64
	misses      atomic.Int64
	sets        atomic.Int64
	deletes     atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64

	mu          sync.RWMutex
	currentSize int64
	maxSize     int64
}

// NewStatistics creates an empty statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

func (s *Statistics) hit()        { s.hits.Add(1) }
func (s *Statistics) miss()       { s.misses.Add(1) }
func (s *Statistics) set()        { s.sets.Add(1) }
func (s *Statistics) delete()     { s.deletes.Add(1) }
func (s *Statistics) eviction()   { s.evictions.Add(1) }
func (s *Statistics) expiration() { s.expirations.Add(1) }

func (s *Statistics) updateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	if size > s.maxSize {
		s.maxSize = size
	}
	s.mu.Unlock()
}

// Hits returns the number of cache hits
func (s *Statistics) Hits() int64 { return s.hits.Load() }

// Misses returns the number of cache misses, expired lookups included
func (s *Statistics) Misses() int64 { return s.misses.Load() }

// Sets returns the number of set operations
func (s *Statistics) Sets() int64 { return s.sets.Load() }

// Deletes returns the number of deleted entries
func (s *Statistics) Deletes() int64 { return s.deletes.Load() }

// Evictions returns the number of entries evicted for size
func (s *Statistics) Evictions() int64 { return s.evictions.Load() }

// Expirations returns the number of entries dropped after their TTL
func (s *Statistics) Expirations() int64 { return s.expirations.Load() }

// CurrentSize returns the number of stored entries
func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

// MaxSize returns the largest number of entries the cache has held
func (s *Statistics) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup.
func (s *Statistics) HitRatio() float64 {
	hits, misses := s.Hits(), s.Misses()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// StatsSummary is a snapshot of the statistics.
type StatsSummary struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Sets        int64   `json:"sets"`
	Deletes     int64   `json:"deletes"`
	Evictions   int64   `json:"evictions"`
	Expirations int64   `json:"expirations"`
	CurrentSize int64   `json:"current_size"`
	MaxSize     int64   `json:"max_size"`
	HitRatio    float64 `json:"hit_ratio"`
}

// Summary returns a snapshot of the statistics
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Hits:        s.Hits(),
		Misses:      s.Misses(),
		Sets:        s.Sets(),
		Deletes:     s.Deletes(),
		Evictions:   s.Evictions(),
		Expirations: s.Expirations(),
		CurrentSize: s.CurrentSize(),
		MaxSize:     s.MaxSize(),
		HitRatio:    s.HitRatio(),
	}
}
