package fieldtype

import (
	"html"
	"maps"
	"slices"
	"sort"
	"strings"
)

var attributePriority = map[string]int{
	"id":    0,
	"name":  1,
	"class": 2,
	"rel":   4,
	"type":  5,
	"value": 6,
	"href":  7,
}

func attributeRank(key string) int {
	if p, ok := attributePriority[key]; ok {
		return p
	}
	if strings.HasPrefix(key, "data-") {
		return 3
	}
	return 8
}

// MakeHTMLAttributes renders attrs as a leading-space separated attribute
// string. Order is id, name, class, data-*, rel, type, value, href and then
// everything else alphabetically. Empty strings, nil and collection values
// are skipped. Boolean attributes come last and are only emitted when true,
// either bare (html5) or as key="key".
func MakeHTMLAttributes(attrs map[string]any, html5 bool) string {
	var keys, bools []string
	for k, v := range attrs {
		if _, ok := v.(bool); ok {
			bools = append(bools, k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.Strings(bools)
	slices.SortStableFunc(keys, func(a, b string) int {
		return attributeRank(a) - attributeRank(b)
	})

	var sb strings.Builder
	for _, k := range keys {
		value, ok := attributeValue(attrs[k])
		if !ok {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(value))
		sb.WriteString(`"`)
	}
	for _, k := range bools {
		if !attrs[k].(bool) {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(k)
		if !html5 {
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(k))
			sb.WriteString(`"`)
		}
	}
	return sb.String()
}

func attributeValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case []any, []string, map[string]any, Args, Options:
		return "", false
	}
	s := toString(v)
	return s, true
}

// Assets is the client-side contract a field reports: script handles it
// depends on and variables the field script reads.
type Assets struct {
	Dependencies []string       `json:"dependencies,omitempty"`
	ScriptVars   map[string]any `json:"script_vars,omitempty"`
}

// IsZero reports whether the field needs no assets
func (a Assets) IsZero() bool {
	return len(a.Dependencies) == 0 && len(a.ScriptVars) == 0
}

// MergeAssets combines asset reports. Dependencies are de-duplicated in
// first-seen order. Script variables are overwritten by later reports,
// except that two map values under the same key are merged.
func MergeAssets(list ...Assets) Assets {
	var out Assets
	for _, a := range list {
		for _, dep := range a.Dependencies {
			if !slices.Contains(out.Dependencies, dep) {
				out.Dependencies = append(out.Dependencies, dep)
			}
		}
		for k, v := range a.ScriptVars {
			if out.ScriptVars == nil {
				out.ScriptVars = make(map[string]any)
			}
			existing, ok := out.ScriptVars[k].(map[string]any)
			incoming, ok2 := v.(map[string]any)
			if ok && ok2 {
				merged := maps.Clone(existing)
				maps.Copy(merged, incoming)
				out.ScriptVars[k] = merged
				continue
			}
			out.ScriptVars[k] = v
		}
	}
	return out
}
