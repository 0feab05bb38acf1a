package fieldtype

// Checkbox stores a boolean and is never empty.
type Checkbox struct {
	Base
}

func newCheckbox(m *Manager, typ string, args Args) *Checkbox {
	return &Checkbox{Base: newBase(m, typ, args)}
}

// Display implements Field
func (c *Checkbox) Display(value any) string {
	attrs := c.attrs("placeholder")
	if toBool(value) {
		attrs["checked"] = true
	}
	return `<input type="checkbox"` + MakeHTMLAttributes(attrs, false) + ` />`
}

// Validate implements Field
func (c *Checkbox) Validate(value any) (any, error) {
	if value == nil {
		return c.valid(false)
	}
	return c.valid(c.m.Format(value, KindBool, ModeInput, nil))
}

// Parse implements Field
func (c *Checkbox) Parse(value any, f Formatting) any {
	return c.m.Format(value, KindBool, f.mode(), f.Options)
}

// IsEmpty implements Field
func (c *Checkbox) IsEmpty(any) bool {
	return false
}
