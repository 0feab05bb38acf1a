package fieldtype

import (
	"io"

	"github.com/felixarntz/wpdlib/errors"
)

// Field is a form field type. Fields are stateless with regard to values:
// every method receives the value it works on.
type Field interface {
	// Type returns the field type name
	Type() string
	// Args returns a copy of the construction arguments
	Args() Args
	// Display renders the control for value
	Display(value any) string
	// Validate converts untrusted input into the canonical stored form.
	// A nil value is treated as absent and yields the field default.
	Validate(value any) (any, error)
	// Parse converts a stored value into its canonical form, or into a
	// human readable projection when f is enabled.
	Parse(value any, f Formatting) any
	// IsEmpty reports whether value counts as not filled in
	IsEmpty(value any) bool
	// Assets returns the client-side dependencies of the control
	Assets() Assets
}

// Formatting selects the projection Parse produces. The zero value asks for
// the canonical form.
type Formatting struct {
	Enabled bool
	Options Args
}

var (
	// Raw requests the canonical stored form
	Raw = Formatting{}
	// Formatted requests the default human readable form
	Formatted = Formatting{Enabled: true}
)

// FormattedWith requests the human readable form with projection options
func FormattedWith(opts Args) Formatting {
	return Formatting{Enabled: true, Options: opts}
}

// mode returns the Format mode matching f
func (f Formatting) mode() string {
	if f.Enabled {
		return ModeOutput
	}
	return ModeInput
}

// Render writes the control markup for value to w. Fields whose options
// have not been resolved yet are rejected.
func Render(w io.Writer, f Field, value any) error {
	if r, ok := f.(Resolver); ok && !r.OptionsResolved() {
		return errors.Newf(errors.CodeOptionsUnresolved, "",
			"the options of field %s have not been resolved", f.Args().String("id", f.Type()))
	}
	if _, err := io.WriteString(w, f.Display(value)); err != nil {
		return errors.Wrap(err, "fieldtype", "Render", "write markup")
	}
	return nil
}

// Base is the plain input field used for text, tel and every type without a
// dedicated implementation. The other field types embed it.
type Base struct {
	typ  string
	args Args
	m    *Manager
}

var _ Field = (*Base)(nil)

func newBase(m *Manager, typ string, args Args) Base {
	if args == nil {
		args = Args{}
	}
	return Base{typ: typ, args: args, m: m}
}

// Type implements Field
func (b *Base) Type() string { return b.typ }

// Args implements Field
func (b *Base) Args() Args { return b.args.Clone() }

// attrs returns the markup attributes derived from the arguments
func (b *Base) attrs(drop ...string) map[string]any {
	out := make(map[string]any, len(b.args))
	for k, v := range b.args {
		out[k] = v
	}
	for _, k := range []string{"options", "repeatable", "mime_types", "store"} {
		delete(out, k)
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

// Display implements Field
func (b *Base) Display(value any) string {
	attrs := b.attrs()
	attrs["value"] = toString(value)
	return `<input type="` + b.typ + `"` + MakeHTMLAttributes(attrs, false) + ` />`
}

// Validate implements Field
func (b *Base) Validate(value any) (any, error) {
	if value == nil {
		return b.valid("")
	}
	return b.valid(b.m.ugc.Sanitize(toString(value)))
}

// Parse implements Field
func (b *Base) Parse(value any, f Formatting) any {
	if f.Enabled {
		return b.m.FormatString(value, KindString, ModeOutput, f.Options)
	}
	return toString(value)
}

// IsEmpty implements Field
func (b *Base) IsEmpty(value any) bool {
	return isEmptyValue(value)
}

// Assets implements Field
func (b *Base) Assets() Assets {
	return Assets{}
}

func (b *Base) valid(v any) (any, error) {
	b.m.recordValidation(b.typ, nil)
	return v, nil
}

func (b *Base) invalid(err error) (any, error) {
	b.m.recordValidation(b.typ, err)
	return nil, err
}

func (b *Base) id() string {
	return b.args.String("id", "")
}
