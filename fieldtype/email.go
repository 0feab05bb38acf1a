package fieldtype

import (
	"strings"

	"github.com/felixarntz/wpdlib/errors"
)

// Email stores a validated email address.
type Email struct {
	Base
}

func newEmail(m *Manager, typ string, args Args) *Email {
	return &Email{Base: newBase(m, typ, args)}
}

// Validate implements Field. Surrounding whitespace and angle brackets are
// stripped and the domain is lower-cased before the address is checked.
func (e *Email) Validate(value any) (any, error) {
	if value == nil {
		return e.valid("")
	}
	v := normalizeEmail(toString(value))
	if err := e.m.validator.Var(v, "required,email"); err != nil {
		return e.invalid(errors.Newf(errors.CodeInvalidEmail, "",
			"%s is not a valid email address.", e.m.FormatString(v, KindString, ModeOutput, nil)).WithData(v))
	}
	return e.valid(v)
}

func normalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	s = strings.TrimPrefix(s, "mailto:")
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return s
	}
	return s[:at] + "@" + strings.ToLower(s[at+1:])
}
