package fieldtype

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/metric"
)

func TestManager_GetInstance(t *testing.T) {
	m := newTestManager()

	tests := []struct {
		name          string
		args          Args
		forRepeatable bool
		wantOK        bool
		wantType      string
	}{
		{"text", Args{"type": "text"}, false, true, TypeText},
		{"tel uses the base field", Args{"type": "tel"}, false, true, TypeTel},
		{"unknown type", Args{"type": "hologram"}, false, false, ""},
		{"missing type", Args{}, false, false, ""},
		{"radio in repeatable", Args{"type": "radio"}, true, true, TypeSelect},
		{"multibox in repeatable", Args{"type": "multibox"}, true, true, TypeMultiselect},
		{"textarea in repeatable", Args{"type": "textarea"}, true, true, TypeText},
		{"wysiwyg in repeatable", Args{"type": "wysiwyg"}, true, false, ""},
		{"repeatable in repeatable", Args{"type": "repeatable"}, true, false, ""},
		{"radio outside repeatable", Args{"type": "radio"}, false, true, TypeRadio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := m.GetInstance(tt.args, tt.forRepeatable)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantType, f.Type())
			}
		})
	}
}

func TestManager_GetInstanceFiltersArgs(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{
		"type":        "text",
		"id":          "title",
		"name":        "title",
		"placeholder": "Title",
		"data-max":    3,
		"onclick":     "alert(1)",
		"title":       "Not an attribute",
	})

	args := f.Args()
	assert.Equal(t, Args{"id": "title", "name": "title", "placeholder": "Title", "data-max": 3}, args)

	args["id"] = "changed"
	assert.Equal(t, "title", f.Args().String("id", ""), "Args returns a copy")

	html := f.Display("hello")
	assert.Equal(t, `<input type="text" id="title" name="title" data-max="3" value="hello" placeholder="Title" />`, html)
}

func TestManager_Types(t *testing.T) {
	m := newTestManager()
	types := m.Types()
	assert.Len(t, types, 20)
	for _, typ := range types {
		assert.True(t, m.IsSupported(typ), typ)
	}
	assert.False(t, m.IsSupported("hologram"))

	types[0] = "changed"
	assert.Equal(t, TypeCheckbox, m.Types()[0])
}

func TestManager_CollectAssets(t *testing.T) {
	m := newTestManager()
	assets := m.CollectAssets(
		mustField(t, m, Args{"type": "select", "options": []string{"a"}}),
		mustField(t, m, Args{"type": "color"}),
		mustField(t, m, Args{"type": "multiselect", "options": []string{"a"}}),
	)
	assert.Equal(t, []string{"jquery", "select2", "wp-color-picker"}, assets.Dependencies)
}

func TestManager_Metrics(t *testing.T) {
	mt := metric.NewMetrics()
	m := newTestManager(WithMetrics(mt))

	f := mustField(t, m, Args{"type": "color"})
	_, err := f.Validate("#fff")
	require.NoError(t, err)
	_, err = f.Validate("red")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mt.FieldsCreated.WithLabelValues(TypeColor)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.FieldValidations.WithLabelValues(TypeColor, metric.OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.FieldValidations.WithLabelValues(TypeColor, metric.OutcomeInvalid)))
}

func TestRender(t *testing.T) {
	m := newTestManager()

	t.Run("writes display markup", func(t *testing.T) {
		f := mustField(t, m, Args{"type": "email", "id": "mail"})
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, f, "a@b.co"))
		assert.Equal(t, f.Display("a@b.co"), buf.String())
	})

	t.Run("rejects unresolved options", func(t *testing.T) {
		f := mustField(t, m, Args{"type": "select", "id": "page", "options": map[string]any{"posts": "page"}})
		var buf bytes.Buffer
		err := Render(&buf, f, "")
		assert.ErrorIs(t, err, errors.ErrOptionsUnresolved)
		assert.Empty(t, buf.String())
	})
}
