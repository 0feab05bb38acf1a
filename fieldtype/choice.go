package fieldtype

import (
	"context"
	"html"
	"slices"
	"strings"
	"sync"

	"github.com/felixarntz/wpdlib/errors"
)

// Choice projection modes for Parse
const (
	ChoiceModeAuto  = "auto"
	ChoiceModeLabel = "label"
	ChoiceModeImage = "image"
	ChoiceModeColor = "color"
	ChoiceModeValue = "value"
)

// Choice backs radio, multibox, select and multiselect fields. Single
// choice types store one option value, multi choice types a list of them.
type Choice struct {
	Base
	multiple bool
	dropdown bool

	mu       sync.RWMutex
	options  Options
	source   *OptionsSource
	resolved bool
}

var _ Resolver = (*Choice)(nil)

func newChoice(m *Manager, typ string, args Args) (*Choice, error) {
	opts, src, err := parseOptionsArg(args["options"])
	if err != nil {
		return nil, err
	}
	c := &Choice{
		Base:     newBase(m, typ, args),
		multiple: typ == TypeMultibox || typ == TypeMultiselect,
		dropdown: typ == TypeSelect || typ == TypeMultiselect,
		options:  opts,
		source:   src,
		resolved: src == nil,
	}
	return c, nil
}

// Multiple reports whether the field stores a list of values
func (c *Choice) Multiple() bool { return c.multiple }

// Source returns the options descriptor, if the options are looked up
func (c *Choice) Source() *OptionsSource { return c.source }

// Options returns the current options
func (c *Choice) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.options)
}

// OptionsResolved implements Resolver
func (c *Choice) OptionsResolved() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolved
}

// ResolveOptions implements Resolver
func (c *Choice) ResolveOptions(ctx context.Context, ds DataSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved {
		return nil
	}
	if ds == nil {
		return errors.Newf(errors.CodeOptionsUnresolved, "",
			"no data source to resolve the %s options of field %s", c.source.Kind, c.id())
	}

	opts, err := ds.LookupOptions(ctx, *c.source)
	if err != nil {
		return errors.Wrap(err, "fieldtype", "ResolveOptions", "lookup "+c.source.String())
	}
	c.options = opts
	c.resolved = true
	c.m.logger.Debug("field options resolved",
		"id", c.id(),
		"source", c.source.String(),
		"count", len(opts))
	return nil
}

func (c *Choice) name() string {
	name := c.args.String("name", "")
	if c.multiple && !strings.HasSuffix(name, "[]") {
		name += "[]"
	}
	return name
}

func (c *Choice) isSelected(option string, value any) bool {
	if c.multiple {
		return slices.Contains(toStrings(value), option)
	}
	return toString(value) == option
}

// Display implements Field
func (c *Choice) Display(value any) string {
	if c.dropdown {
		return c.displaySelect(value)
	}
	return c.displayBoxes(value)
}

func (c *Choice) displaySelect(value any) string {
	attrs := c.attrs("placeholder")
	attrs["name"] = c.name()
	if c.multiple {
		attrs["multiple"] = true
	}

	var sb strings.Builder
	sb.WriteString("<select" + MakeHTMLAttributes(attrs, false) + ">")
	if placeholder := c.args.String("placeholder", ""); placeholder != "" {
		sel := ""
		if isEmptyValue(value) {
			sel = ` selected="selected"`
		}
		sb.WriteString(`<option value=""` + sel + ">" + html.EscapeString(placeholder) + "</option>")
	}
	for _, opt := range c.Options() {
		optAttrs := map[string]any{
			"value":    opt.Value,
			"selected": c.isSelected(opt.Value, value),
		}
		if opt.Image != "" {
			optAttrs["data-image"] = sanitizeURL(opt.Image)
		} else if opt.Color != "" {
			optAttrs["data-color"] = strings.TrimPrefix(opt.Color, "#")
		}
		sb.WriteString("<option" + MakeHTMLAttributes(optAttrs, false) + ">" + html.EscapeString(opt.Label) + "</option>")
	}
	sb.WriteString("</select>")
	return sb.String()
}

func (c *Choice) displayBoxes(value any) string {
	id := c.id()
	single := "radio"
	if c.multiple {
		single = "checkbox"
	}

	var sb strings.Builder
	sb.WriteString("<div" + MakeHTMLAttributes(map[string]any{"id": id, "class": c.args["class"]}, false) + ">")
	for _, opt := range c.Options() {
		optAttrs := map[string]any{
			"id":       id + "-" + opt.Value,
			"name":     c.name(),
			"value":    opt.Value,
			"checked":  c.isSelected(opt.Value, value),
			"readonly": c.args.Bool("readonly", false),
			"disabled": c.args.Bool("disabled", false),
		}

		class := single
		extra := ""
		if opt.Image != "" || opt.Color != "" {
			class += " box"
			asset := map[string]any{"id": optAttrs["id"].(string) + "-asset"}
			if optAttrs["checked"].(bool) {
				asset["class"] = "checked"
			}
			if opt.Image != "" {
				asset["style"] = "background-image:url('" + sanitizeURL(opt.Image) + "');"
			} else {
				asset["style"] = "background-color:#" + strings.TrimPrefix(opt.Color, "#") + ";"
			}
			extra = "<div" + MakeHTMLAttributes(asset, false) + "></div>"
		}

		sb.WriteString(`<div class="` + class + `">`)
		sb.WriteString(`<input type="` + single + `"` + MakeHTMLAttributes(optAttrs, false) + " />")
		sb.WriteString(extra)
		if opt.Label != "" {
			sb.WriteString(` <label for="` + html.EscapeString(optAttrs["id"].(string)) + `">` + html.EscapeString(opt.Label) + "</label>")
		}
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
	return sb.String()
}

// Validate implements Field. Values are matched against option values
// first and option labels second.
func (c *Choice) Validate(value any) (any, error) {
	if !c.OptionsResolved() {
		return c.invalid(errors.Newf(errors.CodeOptionsUnresolved, "",
			"the options of field %s have not been resolved", c.id()))
	}
	opts := c.Options()

	if c.multiple {
		if value == nil {
			return c.valid([]string{})
		}
		out := []string{}
		for _, v := range toStrings(value) {
			opt, ok := opts.match(v)
			if !ok {
				return c.invalid(c.invalidOption(v))
			}
			out = append(out, opt.Value)
		}
		return c.valid(out)
	}

	if value == nil {
		if len(opts) > 0 {
			return c.valid(opts[0].Value)
		}
		return c.valid("")
	}
	v := toString(value)
	opt, ok := opts.match(v)
	if !ok {
		return c.invalid(c.invalidOption(v))
	}
	return c.valid(opt.Value)
}

func (c *Choice) invalidOption(v string) error {
	return errors.Newf(errors.CodeInvalidOption, "", "%s is not a valid option.",
		c.m.FormatString(v, KindString, ModeOutput, nil)).WithData(map[string]any{"value": v, "field": c.id()})
}

// IsEmpty implements Field
func (c *Choice) IsEmpty(value any) bool {
	if c.multiple {
		return len(toStrings(value)) < 1
	}
	return isEmptyValue(value)
}

// Parse implements Field. Enabled formatting projects option values to
// their label, image or color according to the "mode" option; the "list"
// option joins multiple values into one string.
func (c *Choice) Parse(value any, f Formatting) any {
	if !f.Enabled {
		if c.multiple {
			values := toStrings(value)
			out := make([]string, len(values))
			for i, v := range values {
				out[i] = c.m.FormatString(v, KindString, ModeInput, nil)
			}
			return out
		}
		return c.m.FormatString(value, KindString, ModeInput, nil)
	}

	mode := f.Options.String("mode", ChoiceModeAuto)
	if !c.multiple {
		s, _ := c.project(toString(value), mode)
		return s
	}

	values := toStrings(value)
	out := make([]string, len(values))
	images := len(values) > 0
	for i, v := range values {
		s, isImage := c.project(v, mode)
		out[i] = s
		images = images && isImage
	}
	if f.Options.Bool("list", false) {
		sep := ", "
		if images {
			sep = " "
		}
		return strings.Join(out, sep)
	}
	return out
}

// project returns the formatted projection of one value and whether it is
// an image tag.
func (c *Choice) project(v, mode string) (string, bool) {
	opt, ok := c.Options().Lookup(v)
	if !ok {
		return c.m.FormatString(v, KindString, ModeOutput, nil), false
	}

	label := c.m.FormatString(opt.Label, KindString, ModeOutput, nil)
	switch mode {
	case ChoiceModeValue:
		return c.m.FormatString(opt.Value, KindString, ModeOutput, nil), false
	case ChoiceModeLabel:
		if label == "" {
			return c.m.FormatString(opt.Value, KindString, ModeOutput, nil), false
		}
		return label, false
	case ChoiceModeImage:
		if opt.Image == "" {
			return "", false
		}
		return imageTag(opt.Image, opt.Label), true
	case ChoiceModeColor:
		return c.m.FormatString(opt.Color, KindString, ModeOutput, nil), false
	}

	switch {
	case label != "":
		return label, false
	case opt.Image != "":
		return imageTag(opt.Image, opt.Label), true
	default:
		return c.m.FormatString(opt.Color, KindString, ModeOutput, nil), false
	}
}

func imageTag(src, alt string) string {
	return "<img" + MakeHTMLAttributes(map[string]any{"src": sanitizeURL(src), "alt": alt}, false) + " />"
}

// Assets implements Field
func (c *Choice) Assets() Assets {
	if !c.dropdown {
		return Assets{}
	}
	return Assets{Dependencies: []string{"select2"}}
}

// toStrings coerces a value to a list: slices are converted element-wise,
// a truthy scalar becomes a one-element list and a falsy one an empty list.
func toStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	}
	if isEmptyValue(value) {
		return nil
	}
	return []string{toString(value)}
}
