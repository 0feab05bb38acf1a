package fieldtype

import (
	"context"
	"fmt"
	"sort"

	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/pkg/cache"
	"github.com/felixarntz/wpdlib/pkg/retry"
)

// DataSource looks up the options an OptionsSource describes, e.g. the
// posts of a post type.
type DataSource interface {
	LookupOptions(ctx context.Context, src OptionsSource) (Options, error)
}

// Resolver is implemented by fields whose options may come from a
// DataSource. ResolveOptions must run before the field is displayed or
// validated; it loads the options once and is a no-op afterwards.
type Resolver interface {
	ResolveOptions(ctx context.Context, ds DataSource) error
	OptionsResolved() bool
}

// Resolve resolves the options of every field that needs it, including the
// nested fields of repeatables.
func Resolve(ctx context.Context, ds DataSource, fields ...Field) error {
	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r, ok := f.(Resolver); ok {
			if err := r.ResolveOptions(ctx, ds); err != nil {
				return err
			}
		}
		if rep, ok := f.(*Repeatable); ok {
			if err := Resolve(ctx, ds, rep.Fields()...); err != nil {
				return err
			}
		}
	}
	return nil
}

// StaticSource serves options from in-memory tables keyed by filter value,
// e.g. Posts["page"] holds the options for {posts: page}. An empty filter
// selects every table of the kind.
type StaticSource struct {
	Posts map[string]Options `json:"posts,omitempty" yaml:"posts,omitempty"`
	Terms map[string]Options `json:"terms,omitempty" yaml:"terms,omitempty"`
	Users map[string]Options `json:"users,omitempty" yaml:"users,omitempty"`
}

var _ DataSource = (*StaticSource)(nil)

// LookupOptions implements DataSource
func (s *StaticSource) LookupOptions(_ context.Context, src OptionsSource) (Options, error) {
	var table map[string]Options
	switch src.Kind {
	case SourcePosts:
		table = s.Posts
	case SourceTerms:
		table = s.Terms
	case SourceUsers:
		table = s.Users
	default:
		return nil, errors.WrapInvalid(fmt.Errorf("unknown options source %q", src.Kind),
			"StaticSource", "LookupOptions", "select table")
	}

	filter := src.Filter
	if len(filter) == 0 {
		for k := range table {
			filter = append(filter, k)
		}
		sort.Strings(filter)
	}

	var out Options
	for _, key := range filter {
		for _, opt := range table[key] {
			if _, dup := out.Lookup(opt.Value); !dup {
				out = append(out, opt)
			}
		}
	}
	return out, nil
}

// DefaultCacheSize bounds the lookups a CachedSource keeps
const DefaultCacheSize = 256

// CachedSource memoises the lookups of another DataSource. Failed lookups
// are not cached.
type CachedSource struct {
	next  DataSource
	cache cache.Cache[Options]
}

var _ DataSource = (*CachedSource)(nil)

// NewCachedSource wraps ds with an LRU cache of DefaultCacheSize lookups.
// opts configure the cache, e.g. its TTL or metrics.
func NewCachedSource(ds DataSource, opts ...cache.Option[Options]) (*CachedSource, error) {
	c, err := cache.NewLRU[Options](DefaultCacheSize, opts...)
	if err != nil {
		return nil, err
	}
	return &CachedSource{next: ds, cache: c}, nil
}

// LookupOptions implements DataSource
func (c *CachedSource) LookupOptions(ctx context.Context, src OptionsSource) (Options, error) {
	key := src.String()
	if opts, ok := c.cache.Get(key); ok {
		return opts, nil
	}

	opts, err := c.next.LookupOptions(ctx, src)
	if err != nil {
		return nil, err
	}
	if _, err := c.cache.Set(key, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Len returns the number of cached lookups
func (c *CachedSource) Len() int {
	return c.cache.Size()
}

// Stats returns the cache statistics
func (c *CachedSource) Stats() *cache.Statistics {
	return c.cache.Stats()
}

// RetrySource retries failed lookups of another DataSource with
// exponential backoff. Invalid errors are returned without retrying.
type RetrySource struct {
	next DataSource
	cfg  retry.Config
}

var _ DataSource = (*RetrySource)(nil)

// NewRetrySource wraps ds
func NewRetrySource(ds DataSource, cfg retry.Config) *RetrySource {
	return &RetrySource{next: ds, cfg: cfg}
}

// LookupOptions implements DataSource
func (r *RetrySource) LookupOptions(ctx context.Context, src OptionsSource) (Options, error) {
	return retry.DoWithResult(ctx, r.cfg, func() (Options, error) {
		return r.next.LookupOptions(ctx, src)
	})
}
