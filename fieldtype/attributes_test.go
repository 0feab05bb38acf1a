package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeHTMLAttributes(t *testing.T) {
	attrs := map[string]any{
		"placeholder": "Your name",
		"value":       `say "hi"`,
		"type":        "text",
		"data-id":     5,
		"class":       "regular-text",
		"id":          "name",
		"name":        "name",
		"required":    true,
		"disabled":    false,
		"empty":       "",
		"missing":     nil,
		"options":     []any{"a"},
	}

	tests := []struct {
		name  string
		html5 bool
		want  string
	}{
		{
			name: "xhtml booleans",
			want: ` id="name" name="name" class="regular-text" data-id="5" type="text" value="say &#34;hi&#34;" placeholder="Your name" required="required"`,
		},
		{
			name:  "html5 booleans",
			html5: true,
			want:  ` id="name" name="name" class="regular-text" data-id="5" type="text" value="say &#34;hi&#34;" placeholder="Your name" required`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MakeHTMLAttributes(attrs, tt.html5))
		})
	}
}

func TestMakeHTMLAttributes_Empty(t *testing.T) {
	assert.Equal(t, "", MakeHTMLAttributes(nil, false))
	assert.Equal(t, "", MakeHTMLAttributes(map[string]any{"checked": false, "value": ""}, false))
}

func TestMergeAssets(t *testing.T) {
	merged := MergeAssets(
		Assets{Dependencies: []string{"jquery", "select2"}},
		Assets{},
		Assets{
			Dependencies: []string{"select2", "editor"},
			ScriptVars: map[string]any{
				"templates": map[string]any{"a": "1"},
				"language":  "en",
			},
		},
		Assets{ScriptVars: map[string]any{
			"templates": map[string]any{"b": "2"},
			"language":  "de",
		}},
	)

	assert.Equal(t, []string{"jquery", "select2", "editor"}, merged.Dependencies)
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, merged.ScriptVars["templates"])
	assert.Equal(t, "de", merged.ScriptVars["language"])

	assert.True(t, MergeAssets().IsZero())
}
