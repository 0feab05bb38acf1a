package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixarntz/wpdlib/errors"
)

func TestBase(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "text", "id": "title", "name": "title"})

	v, err := f.Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = f.Validate(`<a href="https://example.com">link</a><script>bad()</script>`)
	require.NoError(t, err)
	assert.Contains(t, v, `href="https://example.com"`)
	assert.NotContains(t, v, "script")

	assert.Equal(t, "link", f.Parse(`<b>link</b>`, Formatted))
	assert.Equal(t, "<b>link</b>", f.Parse(`<b>link</b>`, Raw))
	assert.True(t, f.IsEmpty(""))
	assert.True(t, f.IsEmpty("0"))
	assert.False(t, f.IsEmpty("x"))
	assert.True(t, f.Assets().IsZero())
}

func TestCheckbox(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "checkbox", "id": "agree", "name": "agree"})

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"absent", nil, false},
		{"true", true, true},
		{"one", "1", true},
		{"false string", "false", false},
		{"empty string", "", false},
		{"zero string", "0", false},
		{"upper false", "FALSE", false},
		{"zero", 0, false},
		{"positive", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.Validate(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	assert.Equal(t, "true", f.Parse(true, Formatted))
	assert.Equal(t, false, f.Parse("", Raw))
	assert.False(t, f.IsEmpty(false), "checkboxes are never empty")
	assert.Equal(t, `<input type="checkbox" id="agree" name="agree" checked="checked" />`, f.Display(true))
	assert.Equal(t, `<input type="checkbox" id="agree" name="agree" />`, f.Display(false))
}

func TestColor(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "color", "id": "bg"})

	tests := []struct {
		name    string
		value   any
		want    any
		wantErr error
	}{
		{"absent", nil, DefaultColor, nil},
		{"long hex", "#ABCDEF", "#abcdef", nil},
		{"short hex", " #FfF ", "#fff", nil},
		{"name", "red", nil, errors.ErrInvalidColor},
		{"missing hash", "abcdef", nil, errors.ErrInvalidColor},
		{"wrong length", "#abcd", nil, errors.ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.Validate(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	assert.Equal(t, []string{"wp-color-picker"}, f.Assets().Dependencies)
	assert.Contains(t, f.Display("#fff"), `<input type="color" id="bg" value="#fff" />`)
	assert.Contains(t, f.Display("#fff"), `id="bg-color-viewer"`)
}

func TestEmail(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "email"})

	v, err := f.Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = f.Validate(" <Jane.Doe@Example.COM> ")
	require.NoError(t, err)
	assert.Equal(t, "Jane.Doe@example.com", v)

	v, err = f.Validate("mailto:info@example.org")
	require.NoError(t, err)
	assert.Equal(t, "info@example.org", v)

	_, err = f.Validate("not-an-email")
	assert.ErrorIs(t, err, errors.ErrInvalidEmail)

	_, err = f.Validate("")
	assert.ErrorIs(t, err, errors.ErrInvalidEmail)
}

func TestURL(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "url"})

	v, err := f.Validate("example.com/about")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/about", v)

	v, err = f.Validate("javascript:alert(1)")
	require.NoError(t, err, "URLs are normalised, never rejected")
	assert.Equal(t, "", v)

	assert.Equal(t, "http://x.com/?a=1&amp;b=2", f.Parse("http://x.com/?a=1&b=2", Formatted))
	assert.Equal(t, "http://x.com/?a=1&b=2", f.Parse("http://x.com/?a=1&b=2", Raw))
}

func TestTextarea(t *testing.T) {
	m := newTestManager()

	t.Run("textarea", func(t *testing.T) {
		f := mustField(t, m, Args{"type": "textarea", "id": "bio", "name": "bio"})

		v, err := f.Validate("<p>Hi</p><script>x()</script>")
		require.NoError(t, err)
		assert.Equal(t, "<p>Hi</p>", v)

		assert.Equal(t, `<textarea id="bio" name="bio" rows="5">&lt;b&gt;</textarea>`, f.Display("<b>"))
		assert.Equal(t, "a\n\nb", f.Parse("a\n\nb", Raw))
		assert.True(t, f.Assets().IsZero())
	})

	t.Run("wysiwyg", func(t *testing.T) {
		f := mustField(t, m, Args{"type": "wysiwyg", "id": "body", "rows": 10})

		assert.Equal(t, "<p>a</p>\n<p>b</p>\n", f.Parse("a\n\nb", Formatted))
		assert.Contains(t, f.Display(""), `class="wp-editor-area"`)
		assert.Contains(t, f.Display(""), `&#34;textarea_rows&#34;:10`)
		assert.Equal(t, []string{"editor"}, f.Assets().Dependencies)
	})
}

func TestNumber(t *testing.T) {
	m := newTestManager()

	tests := []struct {
		name    string
		args    Args
		value   any
		want    any
		wantErr error
	}{
		{"integer", Args{}, "5", int64(5), nil},
		{"absent without min", Args{}, nil, int64(0), nil},
		{"absent uses positive min", Args{"min": 18}, nil, int64(18), nil},
		{"absent ignores negative min", Args{"min": -5}, nil, int64(0), nil},
		{"below min", Args{"min": 18}, 10, nil, errors.ErrTooSmall},
		{"zero min is enforced", Args{"min": 0}, -1, nil, errors.ErrTooSmall},
		{"min is inclusive", Args{"min": 18}, 18, int64(18), nil},
		{"above max", Args{"max": 99}, 100, nil, errors.ErrTooBig},
		{"max is inclusive", Args{"max": 99}, 99, int64(99), nil},
		{"step checked first", Args{"step": 5, "min": 10}, 7, nil, errors.ErrInvalidStep},
		{"float step", Args{"step": 0.5}, "1.5", 1.5, nil},
		{"float step rejects", Args{"step": 0.5}, "1.2", nil, errors.ErrInvalidStep},
		{"float step tolerance", Args{"step": 0.1}, 0.3, 0.3, nil},
		{"string step", Args{"step": "2"}, 4, int64(4), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args.Clone()
			args["type"] = "number"
			f := mustField(t, m, args)

			v, err := f.Validate(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestNumber_ErrorData(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "number", "max": 10})

	_, err := f.Validate(1234)
	var de *errors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errors.CodeTooBig, de.Code)
	assert.Equal(t, 1234.0, de.Data)
	assert.Contains(t, de.Message, "1,234")
}

func TestNumber_Range(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "range", "id": "volume", "min": 0, "max": 10})

	html := f.Display(3)
	assert.Contains(t, html, `id="volume-range-viewer"`)
	assert.Contains(t, html, `<input type="range" id="volume"`)
	assert.Equal(t, "3", f.Parse(3, Formatted))
	assert.Equal(t, int64(3), f.Parse("3", Raw))
}
