package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validating the raw parse of a stored value must give the stored value back.
func TestValidateParseRoundTrip(t *testing.T) {
	m := newTestManager(WithMediaStore(testMediaStore()))

	tests := []struct {
		name  string
		args  Args
		input any
	}{
		{"text", Args{"type": "text"}, "Hello <em>world</em>"},
		{"checkbox", Args{"type": "checkbox"}, "on"},
		{"radio", Args{"type": "radio", "options": sizeOptions()}, "Medium"},
		{"multibox", Args{"type": "multibox", "options": sizeOptions()}, []any{"s", "Large"}},
		{"number", Args{"type": "number", "step": 2}, "8"},
		{"float", Args{"type": "number", "step": 0.25}, "1.75"},
		{"date", Args{"type": "date"}, "2025-03-05"},
		{"datetime", Args{"type": "datetime"}, "2025-03-05 09:15"},
		{"time", Args{"type": "time"}, "9:15 PM"},
		{"color", Args{"type": "color"}, "#ABCDEF"},
		{"email", Args{"type": "email"}, "Someone@Example.com"},
		{"url", Args{"type": "url"}, "example.com/a?b=c&d=e"},
		{"media", Args{"type": "media"}, "10"},
		{"coords", Args{"type": "map", "store": "coords"}, "45.5|-93.25"},
		{"address", Args{"type": "map"}, "1 Main St"},
		{"textarea", Args{"type": "textarea"}, "<p>Hi</p>"},
		{"repeatable", linksArgs(), []any{map[string]any{"title": "Docs", "url": "example.com", "kind": "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustField(t, m, tt.args)

			stored, err := f.Validate(tt.input)
			require.NoError(t, err)

			again, err := f.Validate(f.Parse(stored, Raw))
			require.NoError(t, err)
			assert.Equal(t, stored, again)
		})
	}
}
