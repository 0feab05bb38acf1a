package config

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixarntz/wpdlib/component"
	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/fieldtype"
	"github.com/felixarntz/wpdlib/metric"
	"github.com/felixarntz/wpdlib/pkg/cache"
)

func applySample(t *testing.T, m *Manifest, opts ...ApplyOption) (*Result, *component.Registry) {
	t.Helper()
	fm, err := m.NewFieldManager()
	require.NoError(t, err)
	reg := component.NewRegistry()
	res, err := Apply(context.Background(), m, reg, fm, opts...)
	require.NoError(t, err)
	return res, reg
}

func TestApply(t *testing.T) {
	res, reg := applySample(t, decodeSample(t))

	require.Len(t, res.Components, 1)
	assert.Equal(t, "my-menu", res.Components[0].Slug())
	assert.True(t, reg.Gate().TooLate(), "registration closes once the manifest is applied")

	assert.Equal(t, []string{
		"my-menu.settings.general.title",
		"my-menu.settings.general.size",
		"my-menu.settings.general.related",
	}, res.FieldPaths())
	assert.Len(t, res.Fields(), 3)

	page := reg.GetOne("my-menu.settings", "menu.page")
	require.NotNil(t, page)
	assert.Equal(t, "manage_options", page.Get("capability"))
	assert.Equal(t, "Settings", page.Get("title"))
	assert.Equal(t, "my-plugin", page.Scope())

	title := reg.GetOne("my-menu.settings.general.title", "menu.page.section.field")
	require.NotNil(t, title)
	f, ok := res.Field(title.Path())
	require.True(t, ok)
	assert.Same(t, f, title.Get(FieldProperty))
	assert.Equal(t, fieldtype.TypeText, f.Type())
	assert.Equal(t, "title", f.Args().String("id", ""))
	assert.Contains(t, f.Display("Hi"), `placeholder="Your title"`)

	related, ok := res.Field("my-menu.settings.general.related")
	require.True(t, ok)
	choice, ok := related.(*fieldtype.Choice)
	require.True(t, ok)
	assert.True(t, choice.OptionsResolved())
	assert.Equal(t, []string{"10", "11"}, choice.Options().Values())

	v, err := related.Validate([]any{"11"})
	require.NoError(t, err)
	assert.Equal(t, []string{"11"}, v)

	_, ok = res.Field("my-menu.settings")
	assert.False(t, ok)
}

func TestApply_LayersMergeSharedMenus(t *testing.T) {
	l := NewLoader(nil)
	l.AddLayer(writeManifest(t, "base.yaml", sampleYAML))
	l.AddLayer(writeManifest(t, "extra.json", sampleJSON))
	m, err := l.Load()
	require.NoError(t, err)

	res, reg := applySample(t, m)

	require.Len(t, res.Components, 1, "both layers add to the same menu")
	assert.Len(t, res.Components[0].Children("page"), 2)
	assert.ElementsMatch(t, []string{"my-plugin", "other-plugin"}, reg.Scopes())

	tools := reg.GetOne("my-menu.tools", "")
	require.NotNil(t, tools)
	assert.Equal(t, "other-plugin", tools.Scope())

	count, ok := res.Field("my-menu.tools.general.count")
	require.True(t, ok)
	v, err := count.Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestApply_Media(t *testing.T) {
	m := &Manifest{
		Hierarchy: component.Hierarchy{"menu": {"field": nil}},
		Components: []ComponentConfig{{
			Kind: "menu",
			Slug: "media",
			Children: []ComponentConfig{{
				Kind:  "field",
				Slug:  "logo",
				Field: fieldtype.Args{"type": "media", "id": "site-logo"},
			}},
		}},
		Media: []fieldtype.Attachment{{ID: 5, File: "2025/03/logo.png"}},
	}
	res, _ := applySample(t, m)

	f, ok := res.Field("media.logo")
	require.True(t, ok)
	assert.Equal(t, "site-logo", f.Args().String("id", ""))
	assert.Equal(t, "logo", f.Args().String("name", ""))

	v, err := f.Validate("5")
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
}

func TestApply_Errors(t *testing.T) {
	base := func() *Manifest {
		return &Manifest{
			Scope:     "broken-plugin",
			Hierarchy: component.Hierarchy{"menu": {"page": nil}},
		}
	}

	tests := []struct {
		name       string
		components []ComponentConfig
		wantErr    error
	}{
		{
			name:       "unknown field type",
			components: []ComponentConfig{{Kind: "menu", Slug: "m", Field: fieldtype.Args{"type": "slider"}}},
			wantErr:    errors.ErrUnknownFieldType,
		},
		{
			name:       "not top level",
			components: []ComponentConfig{{Kind: "page", Slug: "p"}},
			wantErr:    errors.ErrNotTopLevel,
		},
		{
			name: "invalid child",
			components: []ComponentConfig{{Kind: "menu", Slug: "m", Children: []ComponentConfig{
				{Kind: "section", Slug: "s"},
			}}},
			wantErr: errors.ErrInvalidChild,
		},
		{
			name: "duplicate slug",
			components: []ComponentConfig{{Kind: "menu", Slug: "m", Children: []ComponentConfig{
				{Kind: "page", Slug: "p"},
			}}, {Kind: "menu", Slug: "other", Children: []ComponentConfig{
				{Kind: "page", Slug: "p"},
			}}},
			wantErr: errors.ErrDuplicateSlug,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			m.Components = tt.components
			fm, err := m.NewFieldManager()
			require.NoError(t, err)
			reg := component.NewRegistry()

			_, err = Apply(context.Background(), m, reg, fm)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, reg.Gate().TooLate())
		})
	}
}

func TestApply_TooLate(t *testing.T) {
	m := decodeSample(t)
	_, reg := applySample(t, m)

	fm, err := m.NewFieldManager()
	require.NoError(t, err)
	_, err = Apply(context.Background(), m, reg, fm)
	assert.ErrorIs(t, err, errors.ErrTooLate)

	_, err = Apply(context.Background(), nil, reg, fm)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
}

type failingSource struct{}

func (failingSource) LookupOptions(context.Context, fieldtype.OptionsSource) (fieldtype.Options, error) {
	return nil, fmt.Errorf("source offline")
}

func TestApply_ResolveFailure(t *testing.T) {
	m := decodeSample(t)
	fm, err := m.NewFieldManager()
	require.NoError(t, err)

	_, err = Apply(context.Background(), m, component.NewRegistry(), fm, WithDataSource(failingSource{}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "resolve field options")
	assert.ErrorContains(t, err, "source offline")
}

func TestApply_Metrics(t *testing.T) {
	mt := metric.NewMetrics()
	m := decodeSample(t)
	fm, err := m.NewFieldManager(fieldtype.WithMetrics(mt))
	require.NoError(t, err)
	reg := component.NewRegistry(component.WithMetrics(mt))

	_, err = Apply(context.Background(), m, reg, fm)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mt.ComponentsRegistered.WithLabelValues("menu", metric.OutcomeStored)))
	assert.Equal(t, 3.0, testutil.ToFloat64(mt.ComponentsRegistered.WithLabelValues("field", metric.OutcomeAttached)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.FieldsCreated.WithLabelValues(fieldtype.TypeSelect)))
}

func TestApply_SourceCacheMetrics(t *testing.T) {
	mr := metric.NewMetricsRegistry()
	m := decodeSample(t)

	_, _ = applySample(t, m, WithSourceCache(cache.WithMetrics[fieldtype.Options](mr, "options")))

	families, err := mr.PrometheusRegistry().Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, mf := range families {
		for _, sample := range mf.GetMetric() {
			if c := sample.GetCounter(); c != nil {
				counts[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, counts["wpdlib_cache_misses_total"])
	assert.Equal(t, 1.0, counts["wpdlib_cache_sets_total"])

	_, err = Apply(context.Background(), m, component.NewRegistry(), fieldtype.NewManager(),
		WithSourceCache(cache.WithMetrics[fieldtype.Options](mr, "options")))
	assert.ErrorContains(t, err, "build data source")
}
