package fieldtype

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RowKeyPlaceholder stands for the row index in row templates
const RowKeyPlaceholder = "{{KEY}}"

// NestedField declares one column of a repeatable.
type NestedField struct {
	Slug  string
	Title string
	Args  Args
}

// RepeatableSpec is the "repeatable" argument: the row limit (0 means
// unlimited) and the ordered nested fields.
type RepeatableSpec struct {
	Limit  int
	Fields []NestedField
}

// UnmarshalYAML implements yaml.Unmarshaler. Fields are written as a
// mapping from slug to field arguments and keep document order.
func (s *RepeatableSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("repeatable at line %d must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "limit":
			if err := val.Decode(&s.Limit); err != nil {
				return fmt.Errorf("repeatable limit: %w", err)
			}
		case "fields":
			fields, err := nestedFieldsFromYAML(val)
			if err != nil {
				return err
			}
			s.Fields = fields
		}
	}
	return nil
}

func nestedFieldsFromYAML(node *yaml.Node) ([]NestedField, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("repeatable fields at line %d must be a mapping", node.Line)
	}
	fields := make([]NestedField, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		slug, val := node.Content[i].Value, node.Content[i+1]
		var args Args
		if err := val.Decode(&args); err != nil {
			return nil, fmt.Errorf("repeatable field %s: %w", slug, err)
		}
		fields = append(fields, NestedField{Slug: slug, Title: args.String("title", ""), Args: args})
	}
	return fields, nil
}

// parseRepeatableArg interprets the "repeatable" construction argument.
// Nested fields given as a plain Go map are ordered by slug.
func parseRepeatableArg(v any) (RepeatableSpec, error) {
	switch r := v.(type) {
	case nil:
		return RepeatableSpec{}, nil
	case RepeatableSpec:
		return r, nil
	case *RepeatableSpec:
		if r == nil {
			return RepeatableSpec{}, nil
		}
		return *r, nil
	case map[string]any:
		return repeatableFromMap(Args(r))
	case Args:
		return repeatableFromMap(r)
	}
	return RepeatableSpec{}, fmt.Errorf("unsupported repeatable value of type %T", v)
}

func repeatableFromMap(a Args) (RepeatableSpec, error) {
	spec := RepeatableSpec{Limit: absInt(a.Int("limit", 0))}
	fields := a.Map("fields")
	slugs := make([]string, 0, len(fields))
	for slug := range fields {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		args := Args(nil)
		switch fa := fields[slug].(type) {
		case map[string]any:
			args = Args(fa)
		case Args:
			args = fa
		default:
			return RepeatableSpec{}, fmt.Errorf("repeatable field %s: unsupported value of type %T", slug, fa)
		}
		spec.Fields = append(spec.Fields, NestedField{Slug: slug, Title: args.String("title", ""), Args: args})
	}
	return spec, nil
}

type column struct {
	NestedField
	field Field
}

// Repeatable stores an ordered list of rows, each a map from nested field
// slug to that field's value.
type Repeatable struct {
	Base
	limit   int
	columns []column
}

func newRepeatable(m *Manager, typ string, args Args) (*Repeatable, error) {
	spec, err := parseRepeatableArg(args["repeatable"])
	if err != nil {
		return nil, err
	}
	r := &Repeatable{Base: newBase(m, typ, args), limit: absInt(spec.Limit)}
	for _, nf := range spec.Fields {
		f, ok := m.GetInstance(nf.Args, true)
		if !ok {
			m.logger.Debug("repeatable column skipped",
				"id", r.id(),
				"slug", nf.Slug,
				"type", nf.Args.String("type", ""))
			continue
		}
		r.columns = append(r.columns, column{NestedField: nf, field: f})
	}
	return r, nil
}

// Limit returns the maximum number of rows, 0 for unlimited
func (r *Repeatable) Limit() int { return r.limit }

// Fields returns the nested fields in column order
func (r *Repeatable) Fields() []Field {
	out := make([]Field, len(r.columns))
	for i, c := range r.columns {
		out[i] = c.field
	}
	return out
}

// Field returns the nested field for slug
func (r *Repeatable) Field(slug string) (Field, bool) {
	for _, c := range r.columns {
		if c.Slug == slug {
			return c.field, true
		}
	}
	return nil, false
}

// toRows coerces a value to rows. Non-map rows become empty rows.
func toRows(value any) []map[string]any {
	switch v := value.(type) {
	case []map[string]any:
		return v
	case []any:
		rows := make([]map[string]any, len(v))
		for i, item := range v {
			switch row := item.(type) {
			case map[string]any:
				rows[i] = row
			case Args:
				rows[i] = row
			default:
				rows[i] = map[string]any{}
			}
		}
		return rows
	}
	return nil
}

// Validate implements Field. Nested values that fail validation fall back
// to the nested field's absent default; rows beyond the limit are dropped.
func (r *Repeatable) Validate(value any) (any, error) {
	rows := toRows(value)
	if r.limit > 0 && len(rows) > r.limit {
		rows = rows[:r.limit]
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		validated := make(map[string]any, len(r.columns))
		for _, c := range r.columns {
			v, present := row[c.Slug]
			if present && v != nil {
				if nv, err := c.field.Validate(v); err == nil {
					validated[c.Slug] = nv
					continue
				}
			}
			validated[c.Slug] = r.fallback(c)
		}
		out = append(out, validated)
	}
	return r.valid(out)
}

// fallback returns the absent default of a column, nil when even that
// fails to validate
func (r *Repeatable) fallback(c column) any {
	v, err := c.field.Validate(nil)
	if err != nil {
		r.m.logger.Warn("repeatable column has no default",
			"field", r.id(),
			"column", c.Slug,
			"type", c.field.Type(),
			"error", err)
		return nil
	}
	return v
}

// IsEmpty implements Field
func (r *Repeatable) IsEmpty(value any) bool {
	return len(toRows(value)) < 1
}

// Parse implements Field
func (r *Repeatable) Parse(value any, f Formatting) any {
	rows := toRows(value)
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		parsed := make(map[string]any, len(r.columns))
		for _, c := range r.columns {
			if v, ok := row[c.Slug]; ok && v != nil {
				parsed[c.Slug] = c.field.Parse(v, f)
				continue
			}
			parsed[c.Slug] = r.fallback(c)
		}
		out = append(out, parsed)
	}
	return out
}

// Display implements Field
func (r *Repeatable) Display(value any) string {
	rows := toRows(value)
	id := r.id()

	button := map[string]any{
		"class": "wpdlib-new-repeatable-button button",
		"href":  "#",
	}
	if r.limit > 0 && len(rows) >= r.limit {
		button["style"] = "display:none;"
	}

	var sb strings.Builder
	sb.WriteString("<div" + MakeHTMLAttributes(map[string]any{
		"id":         id,
		"class":      r.args["class"],
		"data-limit": r.limit,
	}, false) + ">")
	sb.WriteString("<p><a" + MakeHTMLAttributes(button, false) + ">Add new</a></p>")
	sb.WriteString(`<table class="wpdlib-repeatable-table"`)
	if len(rows) < 1 {
		sb.WriteString(` style="display:none;"`)
	}
	sb.WriteString(">")
	sb.WriteString(`<tr><th class="wpdlib-repeatable-number">#</th>`)
	for _, c := range r.columns {
		sb.WriteString(`<th class="wpdlib-repeatable-` + html.EscapeString(id+"-"+c.Slug) + `">` + html.EscapeString(c.Title) + "</th>")
	}
	sb.WriteString("<th></th></tr>")
	for i, row := range rows {
		sb.WriteString(r.displayRow(strconv.Itoa(i), row))
	}
	sb.WriteString("</table></div>")
	return sb.String()
}

// displayRow renders one row. key is the row index or RowKeyPlaceholder.
func (r *Repeatable) displayRow(key string, values map[string]any) string {
	id := r.id()
	name := r.args.String("name", "")

	number := key
	if key == RowKeyPlaceholder {
		number = "{{KEY_PLUSONE}}"
	} else if i, err := strconv.Atoi(key); err == nil {
		number = strconv.Itoa(i + 1)
	}

	var sb strings.Builder
	sb.WriteString(`<tr class="wpdlib-repeatable-row">`)
	sb.WriteString(`<td class="wpdlib-repeatable-number"><span>` + number + ".</span></td>")
	for _, c := range r.columns {
		v, ok := values[c.Slug]
		if !ok || v == nil {
			v, _ = c.field.Validate(nil)
		}
		sb.WriteString(`<td class="wpdlib-repeatable-col wpdlib-repeatable-` + html.EscapeString(id+"-"+c.Slug) + `">`)
		sb.WriteString(r.cellField(c, id+"-"+key+"-"+c.Slug, name+"["+key+"]["+c.Slug+"]").Display(v))
		sb.WriteString("</td>")
	}
	sb.WriteString("<td><a" + MakeHTMLAttributes(map[string]any{
		"class":       "wpdlib-remove-repeatable-button",
		"href":        "#",
		"data-number": key,
	}, false) + ">Remove</a></td>")
	sb.WriteString("</tr>")
	return sb.String()
}

// cellField returns the column field bound to one cell's id and name.
// Resolved options are carried over so the cell needs no resolution.
func (r *Repeatable) cellField(c column, id, name string) Field {
	args := c.field.Args()
	args["id"] = id
	args["name"] = name
	if choice, ok := c.field.(*Choice); ok {
		args["options"] = choice.Options()
	}
	f, err := r.m.newField(c.field.Type(), args)
	if err != nil {
		return c.field
	}
	return f
}

// Assets implements Field. Besides the nested field assets it reports the
// row template under repeatable_field_templates.
func (r *Repeatable) Assets() Assets {
	nested := make([]Assets, 0, len(r.columns)+1)
	for _, c := range r.columns {
		nested = append(nested, c.field.Assets())
	}
	nested = append(nested, Assets{ScriptVars: map[string]any{
		"repeatable_field_templates": map[string]any{
			r.id(): r.displayRow(RowKeyPlaceholder, nil),
		},
	}})
	return MergeAssets(nested...)
}
