package fieldtype

// URL stores a normalised URL. Validation never rejects a value; input that
// cannot be normalised is stored as an empty string.
type URL struct {
	Base
}

func newURL(m *Manager, typ string, args Args) *URL {
	return &URL{Base: newBase(m, typ, args)}
}

// Validate implements Field
func (u *URL) Validate(value any) (any, error) {
	if value == nil {
		return u.valid("")
	}
	return u.valid(u.m.FormatString(value, KindURL, ModeInput, nil))
}

// Parse implements Field
func (u *URL) Parse(value any, f Formatting) any {
	return u.m.FormatString(value, KindURL, f.mode(), f.Options)
}
