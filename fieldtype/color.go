package fieldtype

import (
	"regexp"
	"strings"

	"github.com/felixarntz/wpdlib/errors"
)

// DefaultColor is stored for absent color values
const DefaultColor = "#000000"

var hexColor = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// Color stores a lower-cased hexadecimal color.
type Color struct {
	Base
}

func newColor(m *Manager, typ string, args Args) *Color {
	return &Color{Base: newBase(m, typ, args)}
}

// Display implements Field
func (c *Color) Display(value any) string {
	attrs := c.attrs()
	attrs["value"] = toString(value)
	viewer := map[string]any{
		"id":    c.id() + "-" + c.typ + "-viewer",
		"class": "wpdlib-input-" + c.typ + "-viewer",
		"value": toString(value),
	}
	return `<input type="text"` + MakeHTMLAttributes(viewer, false) + ` />` +
		`<input type="` + c.typ + `"` + MakeHTMLAttributes(attrs, false) + ` />`
}

// Validate implements Field
func (c *Color) Validate(value any) (any, error) {
	if value == nil {
		return c.valid(DefaultColor)
	}
	v := strings.TrimSpace(toString(value))
	if !hexColor.MatchString(v) {
		return c.invalid(errors.Newf(errors.CodeInvalidColor, "",
			"%s is not a valid hexadecimal color.", c.m.FormatString(v, KindString, ModeOutput, nil)).WithData(v))
	}
	return c.valid(strings.ToLower(v))
}

// Parse implements Field
func (c *Color) Parse(value any, _ Formatting) any {
	return strings.ToLower(toString(value))
}

// Assets implements Field
func (c *Color) Assets() Assets {
	return Assets{Dependencies: []string{"wp-color-picker"}}
}
