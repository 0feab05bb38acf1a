package fieldtype

import (
	"html"
	"strconv"
)

// DefaultRows is the textarea height used when no rows argument is given
const DefaultRows = 5

// Textarea backs textarea and wysiwyg fields. Both store sanitised HTML;
// wysiwyg output additionally gets paragraphs.
type Textarea struct {
	Base
}

func newTextarea(m *Manager, typ string, args Args) *Textarea {
	if !args.IsSet("rows") {
		args["rows"] = DefaultRows
	}
	return &Textarea{Base: newBase(m, typ, args)}
}

// Rows returns the visible height in lines
func (t *Textarea) Rows() int {
	return t.args.Int("rows", DefaultRows)
}

// Display implements Field
func (t *Textarea) Display(value any) string {
	attrs := t.attrs()
	if t.typ == TypeWysiwyg {
		attrs["class"] = joinClass("wp-editor-area", t.args.String("class", ""))
		attrs["data-editor"] = `{"wpautop":true,"media_buttons":false,"textarea_rows":` + strconv.Itoa(t.Rows()) + `}`
	}
	return "<textarea" + MakeHTMLAttributes(attrs, false) + ">" + html.EscapeString(toString(value)) + "</textarea>"
}

// Validate implements Field
func (t *Textarea) Validate(value any) (any, error) {
	if value == nil {
		return t.valid("")
	}
	return t.valid(t.m.FormatString(value, KindHTML, ModeInput, nil))
}

// Parse implements Field
func (t *Textarea) Parse(value any, f Formatting) any {
	if t.typ == TypeWysiwyg {
		return t.m.FormatString(value, KindHTML, f.mode(), f.Options)
	}
	if f.Enabled {
		return t.m.FormatString(value, KindHTML, ModeInput, f.Options)
	}
	return toString(value)
}

// Assets implements Field
func (t *Textarea) Assets() Assets {
	if t.typ != TypeWysiwyg {
		return Assets{}
	}
	return Assets{Dependencies: []string{"editor"}}
}

func joinClass(classes ...string) string {
	out := ""
	for _, c := range classes {
		if c == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += c
	}
	return out
}
