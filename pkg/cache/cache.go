package cache

import (
	stderrors "errors"
	"time"

	"github.com/felixarntz/wpdlib/errors"
)

// ErrEmptyKey is returned for operations on the empty key
var ErrEmptyKey = stderrors.New("cache key cannot be empty")

// Cache is a generic cache keyed by string.
type Cache[V any] interface {
	// Get returns the value stored under key and marks it as recently used.
	Get(key string) (V, bool)

	// Set stores value under key. It reports whether a new entry was created.
	Set(key string, value V) (bool, error)

	// Delete removes key. It reports whether the key existed.
	Delete(key string) (bool, error)

	// Clear removes every entry.
	Clear() error

	// Size returns the number of stored entries, expired ones included
	// until they are dropped.
	Size() int

	// Keys returns the stored keys, most recently used first.
	Keys() []string

	// Stats returns the cache statistics.
	Stats() *Statistics
}

// EvictCallback is called with the key and value of an entry removed by
// eviction, expiry, Delete or Clear.
type EvictCallback[V any] func(key string, value V)

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(ErrEmptyKey, "cache", "validateKey", "check key")
	}
	return nil
}
