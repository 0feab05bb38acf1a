package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/fieldtype"
)

func TestSchema_IsValidJSON(t *testing.T) {
	data := Schema()
	require.True(t, json.Valid(data))
	assert.Equal(t, "object", gjson.GetBytes(data, "type").String())

	data[0] = 'x'
	assert.True(t, json.Valid(Schema()), "callers get a copy")
}

func TestSchema_FieldTypesMatchManager(t *testing.T) {
	var types []string
	for _, v := range gjson.GetBytes(Schema(), "definitions.field.properties.type.enum").Array() {
		types = append(types, v.String())
	}
	assert.ElementsMatch(t, fieldtype.NewManager().Types(), types)
}

func TestCheckDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
		message string
	}{
		{name: "sample yaml", data: sampleYAML, format: FormatYAML},
		{name: "sample json", data: sampleJSON, format: FormatJSON},
		{
			name:    "missing hierarchy",
			data:    `{"components": []}`,
			format:  FormatJSON,
			wantErr: errors.ErrSchemaMismatch,
			message: "hierarchy",
		},
		{
			name:    "empty hierarchy",
			data:    "hierarchy: {}\n",
			format:  FormatYAML,
			wantErr: errors.ErrSchemaMismatch,
		},
		{
			name:    "unknown top-level key",
			data:    "hierarchy: {menu: ~}\nplugins: []\n",
			format:  FormatYAML,
			wantErr: errors.ErrSchemaMismatch,
			message: "plugins",
		},
		{
			name:    "unknown field type",
			data:    "hierarchy: {menu: ~}\ncomponents:\n  - kind: menu\n    slug: m\n    field: {type: slider}\n",
			format:  FormatYAML,
			wantErr: errors.ErrSchemaMismatch,
			message: "components.0.field.type",
		},
		{
			name:    "component without slug",
			data:    `{"hierarchy": {"menu": null}, "components": [{"kind": "menu"}]}`,
			format:  FormatJSON,
			wantErr: errors.ErrSchemaMismatch,
			message: "slug",
		},
		{
			name:    "bad slug policy",
			data:    "hierarchy: {menu: ~}\nkinds:\n  page: {slugs: sometimes}\n",
			format:  FormatYAML,
			wantErr: errors.ErrSchemaMismatch,
		},
		{
			name:    "broken json",
			data:    `{"hierarchy": `,
			format:  FormatJSON,
			wantErr: errors.ErrParsingFailed,
		},
		{
			name:    "broken yaml",
			data:    "hierarchy: [",
			format:  FormatYAML,
			wantErr: errors.ErrParsingFailed,
		},
		{
			name:    "unknown format",
			data:    "{}",
			format:  Format("ini"),
			wantErr: errors.ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDocument([]byte(tt.data), tt.format)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.IsInvalid(err))
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestValidateDocument_NonStringKeys(t *testing.T) {
	doc := map[string]any{
		"hierarchy": map[string]any{"menu": nil},
		"sources": map[string]any{
			"posts": map[string]any{
				"page": map[any]any{10: "About", 11: "Contact"},
			},
		},
	}
	assert.NoError(t, ValidateDocument(doc))
}
