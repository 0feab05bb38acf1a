package fieldtype

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/pkg/retry"
)

type countingSource struct {
	next  DataSource
	calls atomic.Int32
	fail  bool
}

func (c *countingSource) LookupOptions(ctx context.Context, src OptionsSource) (Options, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, fmt.Errorf("backend unavailable")
	}
	return c.next.LookupOptions(ctx, src)
}

func testSource() *StaticSource {
	return &StaticSource{
		Posts: map[string]Options{
			"page": {{Value: "2", Label: "About"}, {Value: "1", Label: "Home"}},
			"post": {{Value: "7", Label: "Hello World"}, {Value: "1", Label: "Home"}},
		},
		Users: map[string]Options{
			"editor": {{Value: "3", Label: "Erin"}},
		},
	}
}

func TestStaticSource_LookupOptions(t *testing.T) {
	ds := testSource()
	ctx := context.Background()

	opts, err := ds.LookupOptions(ctx, OptionsSource{Kind: SourcePosts, Filter: []string{"page"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, opts.Values())

	opts, err = ds.LookupOptions(ctx, OptionsSource{Kind: SourcePosts})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "7"}, opts.Values(), "all tables in key order without duplicates")

	opts, err = ds.LookupOptions(ctx, OptionsSource{Kind: SourceTerms, Filter: []string{"category"}})
	require.NoError(t, err)
	assert.Empty(t, opts)

	_, err = ds.LookupOptions(ctx, OptionsSource{Kind: "comments"})
	assert.Error(t, err)
}

func TestCachedSource(t *testing.T) {
	backend := &countingSource{next: testSource()}
	cached, err := NewCachedSource(backend)
	require.NoError(t, err)
	ctx := context.Background()
	src := OptionsSource{Kind: SourceUsers, Filter: []string{"editor"}}

	for i := 0; i < 3; i++ {
		opts, err := cached.LookupOptions(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, opts.Values())
	}
	assert.Equal(t, int32(1), backend.calls.Load())
	assert.Equal(t, 1, cached.Len())
	assert.Equal(t, int64(2), cached.Stats().Hits())

	failing, err := NewCachedSource(&countingSource{next: testSource(), fail: true})
	require.NoError(t, err)
	_, err = failing.LookupOptions(ctx, src)
	assert.Error(t, err)
	assert.Equal(t, 0, failing.Len())
}

func TestResolve(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	pages := mustField(t, m, Args{"type": "select", "id": "page", "options": map[string]any{"posts": "page"}})
	editors := mustField(t, m, Args{"type": "multibox", "id": "editors", "options": map[string]any{"users": "editor"}})
	literal := mustField(t, m, Args{"type": "radio", "id": "size", "options": []string{"s", "m"}})
	text := mustField(t, m, Args{"type": "text"})

	assert.False(t, pages.(Resolver).OptionsResolved())
	assert.True(t, literal.(Resolver).OptionsResolved())

	_, err := pages.Validate("Home")
	assert.ErrorIs(t, err, errors.ErrOptionsUnresolved)

	backend := &countingSource{next: testSource()}
	require.NoError(t, Resolve(ctx, backend, pages, editors, literal, text))
	assert.Equal(t, int32(2), backend.calls.Load())

	v, err := pages.Validate("Home")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	v, err = editors.Validate([]any{"Erin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, v)

	require.NoError(t, Resolve(ctx, backend, pages))
	assert.Equal(t, int32(2), backend.calls.Load(), "resolution runs once")
}

func TestResolve_Errors(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "select", "id": "page", "options": map[string]any{"posts": "page"}})

	err := Resolve(context.Background(), nil, f)
	assert.ErrorIs(t, err, errors.ErrOptionsUnresolved)

	err = Resolve(context.Background(), &countingSource{next: testSource(), fail: true}, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
	assert.False(t, f.(Resolver).OptionsResolved())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Resolve(ctx, testSource(), f), context.Canceled)
}

func TestResolve_Repeatable(t *testing.T) {
	m := newTestManager()
	rep := mustField(t, m, Args{
		"type": "repeatable",
		"id":   "links",
		"repeatable": map[string]any{
			"fields": map[string]any{
				"page": map[string]any{"type": "radio", "options": map[string]any{"posts": "page"}},
			},
		},
	})

	require.NoError(t, Resolve(context.Background(), testSource(), rep))

	v, err := rep.Validate([]any{map[string]any{"page": "About"}})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"page": "2"}}, v)
}

type flakySource struct {
	next     DataSource
	failures int
	calls    int
}

func (f *flakySource) LookupOptions(ctx context.Context, src OptionsSource) (Options, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("timeout")
	}
	return f.next.LookupOptions(ctx, src)
}

func TestRetrySource(t *testing.T) {
	ctx := context.Background()
	cfg := retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	src := OptionsSource{Kind: SourceUsers, Filter: []string{"editor"}}

	flaky := &flakySource{next: testSource(), failures: 2}
	opts, err := NewRetrySource(flaky, cfg).LookupOptions(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, opts.Values())
	assert.Equal(t, 3, flaky.calls)

	down := &flakySource{next: testSource(), failures: 10}
	_, err = NewRetrySource(down, cfg).LookupOptions(ctx, src)
	assert.ErrorContains(t, err, "failed after 3 attempts")
	assert.Equal(t, 3, down.calls)

	unknown := &flakySource{next: testSource()}
	_, err = NewRetrySource(unknown, cfg).LookupOptions(ctx, OptionsSource{Kind: "comments"})
	assert.True(t, errors.IsInvalid(err))
	assert.Equal(t, 1, unknown.calls, "invalid lookups are not retried")
}
